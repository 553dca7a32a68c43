// This file is part of hackvm - https://github.com/db47h/hackvm
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"strconv"
	"text/scanner"
)

func posPrefix(pos scanner.Position) string {
	if pos.IsValid() {
		return pos.String() + ": "
	}
	if pos.Filename != "" {
		return pos.Filename + ": "
	}
	return ""
}

// SyntaxError is returned by Parse when a line does not match any command
// shape.
type SyntaxError struct {
	Pos  scanner.Position
	Text string // offending line, comments and surrounding spaces removed
	Msg  string
}

func (e *SyntaxError) Error() string {
	return posPrefix(e.Pos) + e.Msg + ": " + strconv.Quote(e.Text)
}

// UnknownSegmentError is returned by Parse when a push or pop names an
// unknown segment.
type UnknownSegmentError struct {
	Pos     scanner.Position
	Segment string
}

func (e *UnknownSegmentError) Error() string {
	return posPrefix(e.Pos) + "unknown segment " + strconv.Quote(e.Segment)
}

// UnsupportedOperationError reports a well formed command that cannot be
// translated, like popping to the constant segment.
type UnsupportedOperationError struct {
	Pos     scanner.Position
	Command Kind
	Segment Segment
	Index   int
	Msg     string
}

func (e *UnsupportedOperationError) Error() string {
	return posPrefix(e.Pos) + e.Command.String() + " " + e.Segment.String() + " " +
		strconv.Itoa(e.Index) + ": " + e.Msg
}
