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

import "strconv"

// Strategy is the addressing strategy of a segment.
type Strategy uint8

// Addressing strategies.
const (
	// Indirect segments live at an offset from a base address held in a
	// pointer register at run time.
	Indirect Strategy = iota
	// Direct segments live at a fixed address.
	Direct
	// Symbolic cells are assembler variables, one per unit and index.
	Symbolic
	// Immediate is the constant segment: the index is the value.
	Immediate
)

var strategies = [...]struct {
	strategy Strategy
	base     string
	addr     int
	size     int // 0: unbounded
}{
	Local:    {Indirect, "LCL", 0, 0},
	Argument: {Indirect, "ARG", 0, 0},
	This:     {Indirect, "THIS", 0, 0},
	That:     {Indirect, "THAT", 0, 0},
	Static:   {Symbolic, "", 0, 0},
	Constant: {Immediate, "", 0, 0},
	Pointer:  {Direct, "", 3, 2},
	Temp:     {Direct, "", 5, 8},
}

// Strategy returns the addressing strategy of s.
func (s Segment) Strategy() Strategy {
	return strategies[s].strategy
}

// Location describes how to reach a segment cell.
type Location struct {
	Strategy Strategy
	Base     string // Indirect: pointer register symbol (LCL, ARG, THIS or THAT)
	Addr     int    // Direct: base address of the segment
	Symbol   string // Symbolic: variable name
	Index    int    // offset from Base or Addr, or the constant value
}

// Resolve returns the location of the segment cell accessed by the push or
// pop command c. The unit parameter is the name of the source unit c comes
// from, used to name static variables.
//
// An *UnsupportedOperationError is returned for pops to the constant segment,
// for out of bounds pointer and temp indices and for static accesses without
// a unit name.
func Resolve(c Command, unit string) (Location, error) {
	fail := func(msg string) (Location, error) {
		return Location{}, &UnsupportedOperationError{
			Pos:     c.Pos,
			Command: c.Kind,
			Segment: c.Segment,
			Index:   c.Index,
			Msg:     msg,
		}
	}
	if c.Kind != Push && c.Kind != Pop {
		return fail("not a memory access")
	}
	if int(c.Segment) >= len(strategies) {
		return fail("invalid segment")
	}
	st := strategies[c.Segment]
	l := Location{Strategy: st.strategy, Index: c.Index}
	switch st.strategy {
	case Indirect:
		l.Base = st.base
	case Direct:
		if c.Index >= st.size {
			return fail("index out of range 0-" + strconv.Itoa(st.size-1))
		}
		l.Addr = st.addr
	case Symbolic:
		if unit == "" {
			return fail("static access outside of a named unit")
		}
		l.Symbol = unit + "." + strconv.Itoa(c.Index)
	case Immediate:
		if c.Kind == Pop {
			return fail("cannot pop to the constant segment")
		}
	}
	return l, nil
}
