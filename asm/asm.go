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

package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
)

const maxErrors = 10

var comps = [...]struct {
	mnemonic string
	bits     uint16 // a c1 c2 c3 c4 c5 c6
}{
	{"0", 0x2a},
	{"1", 0x3f},
	{"-1", 0x3a},
	{"D", 0x0c},
	{"A", 0x30},
	{"!D", 0x0d},
	{"!A", 0x31},
	{"-D", 0x0f},
	{"-A", 0x33},
	{"D+1", 0x1f},
	{"A+1", 0x37},
	{"D-1", 0x0e},
	{"A-1", 0x32},
	{"D+A", 0x02},
	{"D-A", 0x13},
	{"A-D", 0x07},
	{"D&A", 0x00},
	{"D|A", 0x15},
	{"M", 0x70},
	{"!M", 0x71},
	{"-M", 0x73},
	{"M+1", 0x77},
	{"M-1", 0x72},
	{"D+M", 0x42},
	{"D-M", 0x53},
	{"M-D", 0x47},
	{"D&M", 0x40},
	{"D|M", 0x55},
}

var jumps = [...]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

var (
	compIndex = make(map[string]uint16)
	compNames = make(map[uint16]string)
	jumpIndex = make(map[string]uint16)
)

func init() {
	for _, c := range comps {
		compIndex[c.mnemonic] = c.bits
		compNames[c.bits] = c.mnemonic
	}
	// commutative forms
	for _, c := range comps {
		m := c.mnemonic
		if len(m) == 3 && strings.ContainsAny(m[1:2], "+&|") {
			sw := m[2:] + m[1:2] + m[:1]
			if _, ok := compIndex[sw]; !ok {
				compIndex[sw] = c.bits
			}
		}
	}
	for i, j := range jumps {
		if j != "" {
			jumpIndex[j] = uint16(i)
		}
	}
}

// Error is an assembly error at a given source position.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrAsm is the error type returned by Assemble. It holds at most 10 errors.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	s := make([]string, len(e))
	for i := range e {
		s[i] = e[i].Error()
	}
	return strings.Join(s, "\n")
}

// Image is the output of the assembler.
type Image struct {
	Code   []hack.Word
	Labels map[string]int // label addresses in ROM
	Vars   map[string]int // variable addresses in RAM
}

// Assemble assembles the source read from the supplied io.Reader and returns
// the resulting image and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, is either an I/O error from r or an ErrAsm
// value.
func Assemble(name string, r io.Reader) (*Image, error) {
	p := newParser()
	if err := p.scan(name, r); err != nil {
		return nil, err
	}
	return p.assemble()
}

// AssembleProgram assembles the given instructions. Error positions use the
// instruction index in p, plus one, as line number.
func AssembleProgram(name string, prog hack.Program) (*Image, error) {
	p := newParser()
	for i, ins := range prog {
		pos := scanner.Position{Filename: name, Line: i + 1, Column: 1}
		p.check(pos, ins)
		p.lines = append(p.lines, line{pos, ins})
	}
	return p.assemble()
}

func encodeDest(dest string) (uint16, bool) {
	var d uint16
	for _, ch := range dest {
		var b uint16
		switch ch {
		case 'A':
			b = 4
		case 'D':
			b = 2
		case 'M':
			b = 1
		default:
			return 0, false
		}
		if d&b != 0 {
			return 0, false
		}
		d |= b
	}
	return d, true
}

// Disassemble writes a disassembly of the word in the given slice at position
// pc to the specified io.Writer and returns the position of the next word and
// any write error.
func Disassemble(code []hack.Word, pc int, w io.Writer) (next int, err error) {
	ew := hvi.NewErrWriter(w)
	ins := code[pc]
	if ins >= 0 {
		io.WriteString(ew, "@"+strconv.Itoa(int(ins)))
		return pc + 1, ew.Err
	}
	u := uint16(ins)
	if d := u >> 3 & 7; d != 0 {
		for _, r := range [...]struct {
			b  uint16
			ch string
		}{{4, "A"}, {1, "M"}, {2, "D"}} {
			if d&r.b != 0 {
				io.WriteString(ew, r.ch)
			}
		}
		io.WriteString(ew, "=")
	}
	if c, ok := compNames[u>>6&0x7f]; ok {
		io.WriteString(ew, c)
	} else {
		fmt.Fprintf(ew, "?%07b", u>>6&0x7f)
	}
	if j := u & 7; j != 0 {
		io.WriteString(ew, ";"+jumps[j])
	}
	return pc + 1, ew.Err
}

// DisassembleAll writes a disassembly of all words in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first word (code[0]). It will return any write error.
func DisassembleAll(code []hack.Word, base int, w io.Writer) error {
	ew := hvi.NewErrWriter(w)
	for pc := 0; pc < len(code); {
		fmt.Fprintf(ew, "% 6d\t", base+pc)
		pc, _ = Disassemble(code, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}

// WriteHack writes code in the Hack binary text format: one 16 characters
// line of '0' and '1' per word.
func WriteHack(w io.Writer, code []hack.Word) error {
	ew := hvi.NewErrWriter(w)
	b := make([]byte, 0, 17)
	for _, c := range code {
		b = b[:0]
		for bit := 15; bit >= 0; bit-- {
			b = append(b, '0'+byte(uint16(c)>>uint(bit)&1))
		}
		b = append(b, '\n')
		if _, err := ew.Write(b); err != nil {
			return err
		}
	}
	return nil
}
