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

// Kind identifies the shape of a Command.
type Kind uint8

// Command kinds.
const (
	Arithmetic Kind = iota
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

var kinds = [...]string{
	"arithmetic",
	"push",
	"pop",
	"label",
	"goto",
	"if-goto",
	"function",
	"call",
	"return",
}

func (k Kind) String() string {
	if int(k) < len(kinds) {
		return kinds[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Op is an arithmetic or logical operator.
type Op uint8

// Arithmetic operators.
const (
	Add Op = iota
	Sub
	Neg
	Eq
	Gt
	Lt
	And
	Or
	Not
)

var ops = [...]string{
	"add",
	"sub",
	"neg",
	"eq",
	"gt",
	"lt",
	"and",
	"or",
	"not",
}

var opIndex = make(map[string]Op)

func (o Op) String() string {
	if int(o) < len(ops) {
		return ops[o]
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Unary returns true for operators that transform the top of the stack in
// place.
func (o Op) Unary() bool { return o == Neg || o == Not }

// Comparison returns true for eq, gt and lt.
func (o Op) Comparison() bool { return o == Eq || o == Gt || o == Lt }

// LookupOp returns the operator with the given keyword.
func LookupOp(s string) (Op, bool) {
	o, ok := opIndex[s]
	return o, ok
}

// Segment is a VM memory segment.
type Segment uint8

// Memory segments.
const (
	Local Segment = iota
	Argument
	This
	That
	Static
	Constant
	Pointer
	Temp
)

var segments = [...]string{
	"local",
	"argument",
	"this",
	"that",
	"static",
	"constant",
	"pointer",
	"temp",
}

var segmentIndex = make(map[string]Segment)

func init() {
	for i, v := range ops {
		opIndex[v] = Op(i)
	}
	for i, v := range segments {
		segmentIndex[v] = Segment(i)
	}
}

func (s Segment) String() string {
	if int(s) < len(segments) {
		return segments[s]
	}
	return "Segment(" + strconv.Itoa(int(s)) + ")"
}

// LookupSegment returns the segment with the given name.
func LookupSegment(s string) (Segment, bool) {
	seg, ok := segmentIndex[s]
	return seg, ok
}

// Command is a single VM command. Only the fields relevant to its Kind are
// set:
//
//	Kind		fields
//	----		------
//	Arithmetic	Op
//	Push, Pop	Segment, Index
//	Label, Goto	Name
//	IfGoto		Name
//	Function	Name, N (number of locals)
//	Call		Name, N (number of arguments)
//	Return
type Command struct {
	Kind    Kind
	Op      Op
	Segment Segment
	Index   int
	Name    string
	N       int
	Pos     scanner.Position
}

// String returns the command in VM language syntax.
func (c Command) String() string {
	switch c.Kind {
	case Arithmetic:
		return c.Op.String()
	case Push, Pop:
		return c.Kind.String() + " " + c.Segment.String() + " " + strconv.Itoa(c.Index)
	case Label, Goto, IfGoto:
		return c.Kind.String() + " " + c.Name
	case Function, Call:
		return c.Kind.String() + " " + c.Name + " " + strconv.Itoa(c.N)
	}
	return c.Kind.String()
}
