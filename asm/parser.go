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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/hackvm/hack"
	"github.com/pkg/errors"
)

type line struct {
	pos scanner.Position
	ins hack.Instr
}

type parser struct {
	lines []line
	errs  ErrAsm
}

func newParser() *parser {
	return &parser{}
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, msg})
	}
}

func (p *parser) errorf(pos scanner.Position, format string, args ...interface{}) {
	p.error(pos, fmt.Sprintf(format, args...))
}

func validSymbol(s string) bool {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '$', c == ':':
		default:
			return false
		}
	}
	return true
}

// ParseInstr parses a single line of assembly, without comments. It returns
// false if the line is empty.
func ParseInstr(s string) (hack.Instr, bool, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return hack.Instr{}, false, nil
	}
	switch s[0] {
	case '@':
		v := s[1:]
		if v != "" && v[0] >= '0' && v[0] <= '9' {
			n, err := strconv.ParseUint(v, 10, 16)
			if err != nil || n > hack.MaxConstant {
				return hack.Instr{}, true, errors.Errorf("invalid constant %q", v)
			}
			return hack.AtInt(int(n)), true, nil
		}
		if !validSymbol(v) {
			return hack.Instr{}, true, errors.Errorf("invalid symbol %q", v)
		}
		return hack.At(v), true, nil
	case '(':
		if s[len(s)-1] != ')' {
			return hack.Instr{}, true, errors.New("missing ')' in label definition")
		}
		v := s[1 : len(s)-1]
		if !validSymbol(v) {
			return hack.Instr{}, true, errors.Errorf("invalid label %q", v)
		}
		return hack.Label(v), true, nil
	}
	var dest, jump string
	comp := s
	if i := strings.IndexByte(comp, '='); i >= 0 {
		dest, comp = comp[:i], comp[i+1:]
		if dest == "" {
			return hack.Instr{}, true, errors.New("empty destination")
		}
	}
	if i := strings.IndexByte(comp, ';'); i >= 0 {
		comp, jump = comp[:i], comp[i+1:]
		if jump == "" {
			return hack.Instr{}, true, errors.New("empty jump")
		}
	}
	ins := hack.C(dest, comp, jump)
	if err := checkC(ins); err != nil {
		return hack.Instr{}, true, err
	}
	return ins, true, nil
}

func checkC(ins hack.Instr) error {
	if _, ok := encodeDest(ins.Dest); !ok {
		return errors.Errorf("invalid destination %q", ins.Dest)
	}
	if _, ok := compIndex[ins.Comp]; !ok {
		return errors.Errorf("invalid computation %q", ins.Comp)
	}
	if _, ok := jumpIndex[ins.Jump]; !ok && ins.Jump != "" {
		return errors.Errorf("invalid jump %q", ins.Jump)
	}
	return nil
}

// check validates instructions built in memory.
func (p *parser) check(pos scanner.Position, ins hack.Instr) {
	switch ins.Kind {
	case hack.AInstr:
		if ins.Symbol != "" {
			if !validSymbol(ins.Symbol) {
				p.errorf(pos, "invalid symbol %q", ins.Symbol)
			}
		} else if ins.Value < 0 || ins.Value > hack.MaxConstant {
			p.errorf(pos, "invalid constant %d", ins.Value)
		}
	case hack.LabelDef:
		if !validSymbol(ins.Symbol) {
			p.errorf(pos, "invalid label %q", ins.Symbol)
		}
	case hack.CInstr:
		if err := checkC(ins); err != nil {
			p.error(pos, err.Error())
		}
	}
}

func (p *parser) scan(name string, r io.Reader) error {
	s := bufio.NewScanner(r)
	pos := scanner.Position{Filename: name, Line: 0, Column: 1}
	off := 0
	for s.Scan() {
		pos.Line++
		pos.Offset = off
		text := s.Text()
		off += len(text) + 1
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		ins, ok, err := ParseInstr(text)
		if err != nil {
			p.error(pos, err.Error())
			continue
		}
		if ok {
			p.lines = append(p.lines, line{pos, ins})
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrapf(err, "%s: read failed", name)
	}
	return nil
}

func (p *parser) assemble() (*Image, error) {
	img := &Image{Labels: make(map[string]int), Vars: make(map[string]int)}
	defs := make(map[string]scanner.Position)
	pc := 0
	for _, l := range p.lines {
		if l.ins.Kind != hack.LabelDef {
			pc++
			continue
		}
		sym := l.ins.Symbol
		if hack.IsPredefined(sym) {
			p.errorf(l.pos, "cannot redefine predefined symbol %s", sym)
			continue
		}
		if prev, ok := defs[sym]; ok {
			p.errorf(l.pos, "label redefinition: %s, previous definition here: %v", sym, prev)
			continue
		}
		defs[sym] = l.pos
		img.Labels[sym] = pc
	}
	if pc > hack.ROMSize {
		p.errorf(scanner.Position{}, "program too large: %d instructions", pc)
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}

	img.Code = make([]hack.Word, 0, pc)
	next := hack.VarBase
	for _, l := range p.lines {
		switch l.ins.Kind {
		case hack.AInstr:
			v := l.ins.Value
			if sym := l.ins.Symbol; sym != "" {
				var ok bool
				if v, ok = resolve(img, sym); !ok {
					if next >= hack.Screen {
						p.errorf(l.pos, "out of variable space allocating %s", sym)
						return nil, p.errs
					}
					v = next
					img.Vars[sym] = v
					next++
				}
			}
			img.Code = append(img.Code, hack.Word(v))
		case hack.CInstr:
			d, _ := encodeDest(l.ins.Dest)
			j := jumpIndex[l.ins.Jump]
			img.Code = append(img.Code, hack.Word(0xe000|compIndex[l.ins.Comp]<<6|d<<3|j))
		}
	}
	return img, nil
}

func resolve(img *Image, sym string) (int, bool) {
	if v, ok := hack.Predefined[sym]; ok {
		return v, true
	}
	if v, ok := img.Labels[sym]; ok {
		return v, true
	}
	v, ok := img.Vars[sym]
	return v, ok
}
