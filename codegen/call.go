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

package codegen

import (
	"context"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
	"github.com/db47h/hackvm/vm"
)

// frameSize is the number of cells saved by a call: return address, LCL, ARG,
// THIS and THAT.
const frameSize = 5

// pushes the content of the RAM cell sym
func pushSym(dst hack.Program, sym string) hack.Program {
	dst = dst.Append(hack.At(sym), hack.Set("D", "M"))
	return append(dst, pushD...)
}

// R13 = R13 - 1; sym = RAM[R13]
func restore(dst hack.Program, sym string) hack.Program {
	return dst.Append(
		hack.At("R13"),
		hack.Set("AM", "M-1"),
		hack.Set("D", "M"),
		hack.At(sym),
		hack.Set("M", "D"))
}

func (g *Generator) funcDef(dst hack.Program, c vm.Command) (hack.Program, error) {
	if err := g.define(c.Name, symFunction, c.Pos); err != nil {
		return dst, err
	}
	g.function = c.Name
	g.log.Log(context.Background(), hvi.LevelTrace, "function", "name", c.Name, "locals", c.N)
	dst = dst.Append(hack.Label(c.Name))
	for i := 0; i < c.N; i++ {
		dst = dst.Append(hack.Set("D", "0"))
		dst = append(dst, pushD...)
	}
	return dst, nil
}

func (g *Generator) call(dst hack.Program, name string, nArgs int) hack.Program {
	ret := g.uniqueLabel("RET")
	dst = dst.Append(hack.At(ret), hack.Set("D", "A"))
	dst = append(dst, pushD...)
	dst = pushSym(dst, "LCL")
	dst = pushSym(dst, "ARG")
	dst = pushSym(dst, "THIS")
	dst = pushSym(dst, "THAT")
	return dst.Append(
		// ARG = SP - nArgs - 5, in two steps so that no constant exceeds 15 bits
		hack.At("SP"),
		hack.Set("D", "M"),
		hack.AtInt(nArgs),
		hack.Set("D", "D-A"),
		hack.AtInt(frameSize),
		hack.Set("D", "D-A"),
		hack.At("ARG"),
		hack.Set("M", "D"),
		// LCL = SP
		hack.At("SP"),
		hack.Set("D", "M"),
		hack.At("LCL"),
		hack.Set("M", "D"),
		hack.At(name),
		hack.Jump("0", "JMP"),
		hack.Label(ret))
}

func (g *Generator) ret(dst hack.Program) hack.Program {
	// R14 = return address, read before the return value can overwrite it
	// (with no arguments, ARG points to the saved return address)
	dst = dst.Append(
		hack.At("LCL"),
		hack.Set("D", "M"),
		hack.AtInt(frameSize),
		hack.Set("A", "D-A"),
		hack.Set("D", "M"),
		hack.At("R14"),
		hack.Set("M", "D"))
	// *ARG = pop()
	dst = append(dst, popD...)
	dst = dst.Append(
		hack.At("ARG"),
		hack.Set("A", "M"),
		hack.Set("M", "D"),
		// SP = ARG + 1
		hack.At("ARG"),
		hack.Set("D", "M+1"),
		hack.At("SP"),
		hack.Set("M", "D"),
		// R13 = LCL
		hack.At("LCL"),
		hack.Set("D", "M"),
		hack.At("R13"),
		hack.Set("M", "D"))
	dst = restore(dst, "THAT")
	dst = restore(dst, "THIS")
	dst = restore(dst, "ARG")
	dst = restore(dst, "LCL")
	return dst.Append(
		hack.At("R14"),
		hack.Set("A", "M"),
		hack.Jump("0", "JMP"))
}

// Bootstrap emits the program preamble: it sets SP and the segment pointers
// LCL, ARG, THIS and THAT to the stack base, then calls the entry function
// with no arguments. It must be emitted once per program, before any
// translated unit.
func (g *Generator) Bootstrap(dst hack.Program) hack.Program {
	dst = dst.Append(
		hack.AtInt(g.base),
		hack.Set("D", "A"))
	for _, r := range [...]string{"SP", "LCL", "ARG", "THIS", "THAT"} {
		dst = dst.Append(hack.At(r), hack.Set("M", "D"))
	}
	g.log.Debug("bootstrap", "base", g.base, "entry", g.entry)
	return g.call(dst, g.entry, 0)
}
