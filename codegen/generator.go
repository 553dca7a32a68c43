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
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
	"github.com/db47h/hackvm/vm"
)

// DefaultEntry is the function called by the bootstrap code.
const DefaultEntry = "Sys.init"

type symbolKind uint8

const (
	symLabel symbolKind = iota
	symFunction
	symStatic
)

type symbol struct {
	kind symbolKind
	pos  scanner.Position
}

// Generator translates VM commands to Hack instructions. A Generator is not
// safe for concurrent use.
type Generator struct {
	file     string
	function string
	counter  int
	symbols  map[string]symbol
	entry    string
	base     int
	boot     Bootstrap
	log      *slog.Logger
}

// Option interface
type Option func(*Generator)

// Entry sets the name of the function called by the bootstrap code. The
// default is DefaultEntry.
func Entry(name string) Option {
	return func(g *Generator) { g.entry = name }
}

// StackBase sets the initial value of SP set by the bootstrap code. The
// default is hack.StackBase.
func StackBase(addr int) Option {
	return func(g *Generator) { g.base = addr }
}

// WithBootstrap sets the bootstrap mode used by Translate. The default is
// BootstrapAuto.
func WithBootstrap(b Bootstrap) Option {
	return func(g *Generator) { g.boot = b }
}

// Logger sets the logger. Unit boundaries are logged at debug level, function
// definitions at hvi.LevelTrace.
func Logger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New returns a new Generator with a fresh translation state.
func New(opts ...Option) *Generator {
	g := &Generator{
		symbols: make(map[string]symbol),
		entry:   DefaultEntry,
		base:    hack.StackBase,
		log:     hvi.Discard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// UnitName returns the name of the source unit with the given file name: its
// base name, without the .vm extension.
func UnitName(fileName string) string {
	return strings.TrimSuffix(filepath.Base(fileName), ".vm")
}

// SetFile sets the source unit being translated. The name is passed through
// UnitName. Static variables are named after the unit.
func (g *Generator) SetFile(fileName string) {
	g.file = UnitName(fileName)
	g.log.Debug("unit", "name", g.file)
}

// File returns the name of the current unit.
func (g *Generator) File() string { return g.file }

// Function returns the name of the function currently open, or an empty
// string.
func (g *Generator) Function() string { return g.function }

// uniqueLabel returns a new label of the form $prefix.n.
func (g *Generator) uniqueLabel(prefix string) string {
	g.counter++
	return "$" + prefix + "." + strconv.Itoa(g.counter)
}

// scoped returns the assembly symbol for the VM label name.
func (g *Generator) scoped(name string) string {
	if g.function == "" {
		return name
	}
	return g.function + "$" + name
}

// define registers a symbol defined or used by the program being translated
// and fails if it clashes with an earlier one.
func (g *Generator) define(name string, kind symbolKind, pos scanner.Position) error {
	if hack.IsPredefined(name) {
		return &DuplicateSymbolError{Pos: pos, Symbol: name, Predefined: true}
	}
	prev, ok := g.symbols[name]
	if !ok {
		g.symbols[name] = symbol{kind, pos}
		return nil
	}
	if kind == symStatic && prev.kind == symStatic {
		return nil
	}
	return &DuplicateSymbolError{Pos: pos, Symbol: name, Prev: prev.pos}
}

// Append appends the translation of c to dst and returns the extended
// program. On error, dst is returned unmodified along with a
// *vm.UnsupportedOperationError or a *DuplicateSymbolError.
func (g *Generator) Append(dst hack.Program, c vm.Command) (hack.Program, error) {
	switch c.Kind {
	case vm.Arithmetic:
		return g.arithmetic(dst, c.Op), nil
	case vm.Push:
		return g.push(dst, c)
	case vm.Pop:
		return g.pop(dst, c)
	case vm.Label:
		l := g.scoped(c.Name)
		if err := g.define(l, symLabel, c.Pos); err != nil {
			return dst, err
		}
		return dst.Append(hack.Label(l)), nil
	case vm.Goto:
		return dst.Append(
			hack.At(g.scoped(c.Name)),
			hack.Jump("0", "JMP")), nil
	case vm.IfGoto:
		dst = append(dst, popD...)
		return dst.Append(
			hack.At(g.scoped(c.Name)),
			hack.Jump("D", "JNE")), nil
	case vm.Function:
		return g.funcDef(dst, c)
	case vm.Call:
		return g.call(dst, c.Name, c.N), nil
	case vm.Return:
		return g.ret(dst), nil
	}
	return dst, &vm.UnsupportedOperationError{Pos: c.Pos, Command: c.Kind, Msg: "unknown command"}
}

// Generate translates a command list and appends it to dst.
func (g *Generator) Generate(dst hack.Program, cmds []vm.Command) (hack.Program, error) {
	var err error
	for _, c := range cmds {
		if dst, err = g.Append(dst, c); err != nil {
			return dst, err
		}
	}
	return dst, nil
}
