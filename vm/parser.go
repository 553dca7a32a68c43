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
	"bufio"
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/pkg/errors"
)

// MaxIndex is the largest segment index or count accepted by the parser. It
// matches the largest constant a Hack A-instruction can load.
const MaxIndex = 0x7fff

func isNameRune(ch rune, i int) bool {
	switch {
	case ch == '_' || ch == '.' || ch == ':':
		return true
	case ch < unicode.MaxASCII && unicode.IsLetter(ch):
		return true
	case i > 0 && ch >= '0' && ch <= '9':
		return true
	}
	return false
}

// ValidName returns true if s can be used as a label or function name.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if !isNameRune(ch, i) {
			return false
		}
	}
	return true
}

func parseIndex(s string) (int, bool) {
	if s == "" || len(s) > 5 {
		return 0, false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxIndex {
		return 0, false
	}
	return n, true
}

// Parse reads the source unit from r and returns its commands in source
// order.
//
// The name parameter is used in command positions and error messages. If the
// io.Reader is a file, name should be the file name.
//
// Parsing stops at the first error, which is either a *SyntaxError, an
// *UnknownSegmentError, or an I/O error from r.
func Parse(name string, r io.Reader) ([]Command, error) {
	var (
		cmds    []Command
		offset  int
		advance int
	)
	s := bufio.NewScanner(r)
	s.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		n, tok, err := bufio.ScanLines(data, atEOF)
		advance = n
		return n, tok, err
	})
	for line := 1; s.Scan(); line++ {
		raw := s.Text()
		pos := scanner.Position{Filename: name, Offset: offset, Line: line, Column: 1}
		offset += advance

		text := raw
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		pos.Column = strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsSpace(r) }) + 1
		pos.Offset += pos.Column - 1

		cmd, err := parseCommand(fields, pos)
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Text = strings.TrimSpace(text)
			}
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s: read failed", name)
	}
	return cmds, nil
}

func syntaxError(pos scanner.Position, msg string) error {
	return &SyntaxError{Pos: pos, Msg: msg}
}

func parseCommand(f []string, pos scanner.Position) (Command, error) {
	c := Command{Pos: pos}
	switch f[0] {
	case "push", "pop":
		c.Kind = Push
		if f[0] == "pop" {
			c.Kind = Pop
		}
		if len(f) != 3 {
			return c, syntaxError(pos, f[0]+": expected segment and index")
		}
		seg, ok := LookupSegment(f[1])
		if !ok {
			return c, &UnknownSegmentError{Pos: pos, Segment: f[1]}
		}
		idx, ok := parseIndex(f[2])
		if !ok {
			return c, syntaxError(pos, f[0]+": invalid index "+strconv.Quote(f[2]))
		}
		c.Segment, c.Index = seg, idx
	case "label", "goto", "if-goto":
		switch f[0] {
		case "label":
			c.Kind = Label
		case "goto":
			c.Kind = Goto
		default:
			c.Kind = IfGoto
		}
		if len(f) != 2 {
			return c, syntaxError(pos, f[0]+": expected a label name")
		}
		if !ValidName(f[1]) {
			return c, syntaxError(pos, f[0]+": invalid label name "+strconv.Quote(f[1]))
		}
		c.Name = f[1]
	case "function", "call":
		c.Kind = Function
		what := "number of locals"
		if f[0] == "call" {
			c.Kind = Call
			what = "number of arguments"
		}
		if len(f) != 3 {
			return c, syntaxError(pos, f[0]+": expected function name and "+what)
		}
		if !ValidName(f[1]) {
			return c, syntaxError(pos, f[0]+": invalid function name "+strconv.Quote(f[1]))
		}
		n, ok := parseIndex(f[2])
		if !ok {
			return c, syntaxError(pos, f[0]+": invalid "+what+" "+strconv.Quote(f[2]))
		}
		c.Name, c.N = f[1], n
	case "return":
		c.Kind = Return
		if len(f) != 1 {
			return c, syntaxError(pos, "return: unexpected operand")
		}
	default:
		op, ok := LookupOp(f[0])
		if !ok {
			if len(f) == 1 {
				return c, syntaxError(pos, "unknown arithmetic command "+strconv.Quote(f[0]))
			}
			return c, syntaxError(pos, "unknown command "+strconv.Quote(f[0]))
		}
		if len(f) != 1 {
			return c, syntaxError(pos, f[0]+": unexpected operand")
		}
		c.Kind, c.Op = Arithmetic, op
	}
	return c, nil
}
