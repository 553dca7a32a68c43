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
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/vm"
)

// Instruction templates. They must never be modified in place: always copy
// with append.
var (
	// decrement SP and load the popped value into D
	popD = hack.Program{
		hack.At("SP"),
		hack.Set("AM", "M-1"),
		hack.Set("D", "M"),
	}
	// point A to the top of stack cell
	top = hack.Program{
		hack.At("SP"),
		hack.Set("A", "M-1"),
	}
	// push D
	pushD = hack.Program{
		hack.At("SP"),
		hack.Set("A", "M"),
		hack.Set("M", "D"),
		hack.At("SP"),
		hack.Set("M", "M+1"),
	}
)

var binaryComp = [...]string{
	vm.Add: "M+D",
	vm.Sub: "M-D",
	vm.And: "M&D",
	vm.Or:  "M|D",
}

var unaryComp = [...]string{
	vm.Neg: "-M",
	vm.Not: "!M",
}

var comparisons = [...]struct{ prefix, jump string }{
	vm.Eq: {"EQ", "JEQ"},
	vm.Gt: {"GT", "JGT"},
	vm.Lt: {"LT", "JLT"},
}

func (g *Generator) arithmetic(dst hack.Program, op vm.Op) hack.Program {
	switch {
	case op.Unary():
		dst = append(dst, top...)
		return dst.Append(hack.Set("M", unaryComp[op]))
	case op.Comparison():
		cmp := comparisons[op]
		l := g.uniqueLabel(cmp.prefix)
		dst = append(dst, popD...)
		dst = append(dst, top...)
		dst = dst.Append(
			hack.Set("D", "M-D"),
			hack.Set("M", "-1"),
			hack.At(l),
			hack.Jump("D", cmp.jump))
		dst = append(dst, top...)
		return dst.Append(
			hack.Set("M", "0"),
			hack.Label(l))
	}
	dst = append(dst, popD...)
	dst = append(dst, top...)
	return dst.Append(hack.Set("M", binaryComp[op]))
}

func (g *Generator) locate(c vm.Command) (vm.Location, error) {
	l, err := vm.Resolve(c, g.file)
	if err != nil {
		return l, err
	}
	if l.Strategy == vm.Symbolic {
		if err = g.define(l.Symbol, symStatic, c.Pos); err != nil {
			return l, err
		}
	}
	return l, nil
}

// loadAddr appends code that loads into D the address of the indirect or
// direct location l.
func loadAddr(dst hack.Program, l vm.Location, comp string) hack.Program {
	if l.Strategy == vm.Indirect {
		dst = dst.Append(hack.At(l.Base), hack.Set("D", "M"))
	} else {
		dst = dst.Append(hack.AtInt(l.Addr), hack.Set("D", "A"))
	}
	return dst.Append(hack.AtInt(l.Index), hack.Set(comp, "A+D"))
}

func (g *Generator) push(dst hack.Program, c vm.Command) (hack.Program, error) {
	l, err := g.locate(c)
	if err != nil {
		return dst, err
	}
	switch l.Strategy {
	case vm.Immediate:
		dst = dst.Append(hack.AtInt(l.Index), hack.Set("D", "A"))
	case vm.Symbolic:
		dst = dst.Append(hack.At(l.Symbol), hack.Set("D", "M"))
	default:
		dst = loadAddr(dst, l, "A")
		dst = dst.Append(hack.Set("D", "M"))
	}
	return append(dst, pushD...), nil
}

func (g *Generator) pop(dst hack.Program, c vm.Command) (hack.Program, error) {
	l, err := g.locate(c)
	if err != nil {
		return dst, err
	}
	if l.Strategy == vm.Symbolic {
		dst = append(dst, popD...)
		return dst.Append(hack.At(l.Symbol), hack.Set("M", "D")), nil
	}
	dst = loadAddr(dst, l, "D")
	dst = dst.Append(hack.At("R13"), hack.Set("M", "D"))
	dst = append(dst, popD...)
	return dst.Append(
		hack.At("R13"),
		hack.Set("A", "M"),
		hack.Set("M", "D")), nil
}
