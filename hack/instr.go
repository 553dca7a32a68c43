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

package hack

import (
	"io"
	"strconv"

	"github.com/db47h/hackvm/internal/hvi"
)

// Kind identifies the form of an Instr.
type Kind uint8

// Instruction kinds.
const (
	AInstr   Kind = iota // @value or @symbol
	CInstr               // dest=comp;jump
	LabelDef             // (symbol)
)

// Instr is a single line of Hack assembly.
type Instr struct {
	Kind   Kind
	Symbol string // symbolic A-instruction operand, or defined label
	Value  int    // numeric A-instruction operand, used if Symbol is empty
	Dest   string
	Comp   string
	Jump   string
}

// At returns the A-instruction @symbol.
func At(symbol string) Instr { return Instr{Kind: AInstr, Symbol: symbol} }

// AtInt returns the A-instruction @v.
func AtInt(v int) Instr { return Instr{Kind: AInstr, Value: v} }

// Label returns the label definition (symbol).
func Label(symbol string) Instr { return Instr{Kind: LabelDef, Symbol: symbol} }

// C returns the C-instruction dest=comp;jump. Either of dest and jump may be
// empty.
func C(dest, comp, jump string) Instr {
	return Instr{Kind: CInstr, Dest: dest, Comp: comp, Jump: jump}
}

// Set returns the C-instruction dest=comp.
func Set(dest, comp string) Instr { return C(dest, comp, "") }

// Jump returns the C-instruction comp;jump.
func Jump(comp, jump string) Instr { return C("", comp, jump) }

func (i Instr) String() string {
	switch i.Kind {
	case AInstr:
		if i.Symbol != "" {
			return "@" + i.Symbol
		}
		return "@" + strconv.Itoa(i.Value)
	case LabelDef:
		return "(" + i.Symbol + ")"
	}
	s := i.Comp
	if i.Dest != "" {
		s = i.Dest + "=" + s
	}
	if i.Jump != "" {
		s += ";" + i.Jump
	}
	return s
}

// Program is an ordered sequence of instructions.
type Program []Instr

// Append appends the given instructions and returns the updated program.
func (p Program) Append(ins ...Instr) Program {
	return append(p, ins...)
}

// Labels returns the symbols of all label definitions in p, in program order.
func (p Program) Labels() []string {
	var l []string
	for _, i := range p {
		if i.Kind == LabelDef {
			l = append(l, i.Symbol)
		}
	}
	return l
}

// WriteTo writes p as assembly text to w, one instruction per line. It
// implements io.WriterTo.
func (p Program) WriteTo(w io.Writer) (int64, error) {
	ew := hvi.NewErrWriter(w)
	start := ew.N
	for _, i := range p {
		ew.WriteLine(i.String())
		if ew.Err != nil {
			break
		}
	}
	return ew.N - start, ew.Err
}
