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

// Package jack provides utility functions to inspect a Hack machine running
// code produced by the VM translator, following the Jack calling convention.
package jack

import (
	"sort"
	"strings"

	"github.com/db47h/hackvm/hack"
)

// FrameSize is the number of cells saved by a function call.
const FrameSize = 5

// Frame is a saved call frame. It sits just below the LCL of the function it
// belongs to.
type Frame struct {
	LCL    int       // callee LCL, the frame occupies LCL-5 to LCL-1
	Return hack.Word // return address in ROM
	Saved  [4]hack.Word
}

// Caller returns the caller's LCL, ARG, THIS and THAT in that order.
func (f *Frame) Caller() (lcl, arg, this, that hack.Word) {
	return f.Saved[0], f.Saved[1], f.Saved[2], f.Saved[3]
}

// Stack returns the working stack, from base up to, but excluding, SP. base is
// the initial stack pointer set by the bootstrap code, usually hack.StackBase.
// It returns nil if SP is below base or outside RAM.
func Stack(m *hack.Machine, base int) []hack.Word {
	sp := int(m.Peek(hack.SP))
	if base < 0 || sp < base || sp > len(m.RAM) {
		return nil
	}
	return m.RAM[base:sp]
}

// FrameAt decodes the frame saved below the given LCL value. It returns false
// if the frame would start below base or end past SP.
func FrameAt(m *hack.Machine, base, lcl int) (Frame, bool) {
	sp := int(m.Peek(hack.SP))
	if base < 0 || lcl-FrameSize < base || lcl > sp || lcl > len(m.RAM) {
		return Frame{}, false
	}
	f := Frame{LCL: lcl, Return: m.RAM[lcl-FrameSize]}
	copy(f.Saved[:], m.RAM[lcl-FrameSize+1:lcl])
	return f, true
}

// CurrentFrame returns the frame of the function currently running.
func CurrentFrame(m *hack.Machine, base int) (Frame, bool) {
	return FrameAt(m, base, int(m.Peek(hack.LCL)))
}

// Backtrace returns all call frames, innermost first, by following saved LCL
// values down to the stack base.
func Backtrace(m *hack.Machine, base int) []Frame {
	var frames []Frame
	lcl := int(m.Peek(hack.LCL))
	for {
		f, ok := FrameAt(m, base, lcl)
		if !ok {
			return frames
		}
		frames = append(frames, f)
		next := int(f.Saved[0])
		if next >= lcl {
			return frames
		}
		lcl = next
	}
}

// Symbols maps ROM addresses back to function names.
type Symbols struct {
	addr []int
	name []string
}

// NewSymbols builds a symbol table from assembler labels. Generated labels
// (starting with '$') and labels scoped to a function (func$label) are
// ignored.
func NewSymbols(labels map[string]int) *Symbols {
	type entry struct {
		addr int
		name string
	}
	var e []entry
	for n, a := range labels {
		if !strings.ContainsRune(n, '$') {
			e = append(e, entry{a, n})
		}
	}
	sort.Slice(e, func(i, j int) bool {
		if e[i].addr != e[j].addr {
			return e[i].addr < e[j].addr
		}
		return e[i].name < e[j].name
	})
	s := &Symbols{addr: make([]int, len(e)), name: make([]string, len(e))}
	for i := range e {
		s.addr[i], s.name[i] = e[i].addr, e[i].name
	}
	return s
}

// Func returns the name of the function containing the instruction at pc, or
// an empty string if none is found.
func (s *Symbols) Func(pc int) string {
	i := sort.SearchInts(s.addr, pc+1) - 1
	if i < 0 {
		return ""
	}
	return s.name[i]
}
