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
	"io"
	"strings"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/vm"
	"github.com/pkg/errors"
)

// Bootstrap selects when Translate emits the bootstrap code.
type Bootstrap int

// Bootstrap modes.
const (
	// BootstrapAuto emits the bootstrap code if one of the units defines the
	// entry function.
	BootstrapAuto Bootstrap = iota
	BootstrapAlways
	BootstrapNever
)

var bootstraps = [...]string{"auto", "always", "never"}

func (b Bootstrap) String() string {
	if b >= 0 && int(b) < len(bootstraps) {
		return bootstraps[b]
	}
	return "invalid"
}

// ParseBootstrap returns the Bootstrap mode with the given name.
func ParseBootstrap(s string) (Bootstrap, error) {
	for i, n := range bootstraps {
		if strings.EqualFold(s, n) {
			return Bootstrap(i), nil
		}
	}
	return 0, errors.Errorf("invalid bootstrap mode %q", s)
}

// Unit is a named VM source unit.
type Unit struct {
	Name   string // file name, used for static variables and error messages
	Source io.Reader
}

// Parsed is a parsed source unit.
type Parsed struct {
	Name     string
	Commands []vm.Command
}

// ParseUnits parses all the given units and stops at the first error.
func ParseUnits(units []Unit) ([]Parsed, error) {
	ps := make([]Parsed, 0, len(units))
	for _, u := range units {
		c, err := vm.Parse(u.Name, u.Source)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		ps = append(ps, Parsed{u.Name, c})
	}
	return ps, nil
}

// Translate translates a whole program made of the given units, in order, and
// writes the resulting assembly to w.
//
// All units are parsed before any code is generated, and nothing is written
// to w unless the whole program translates successfully.
func Translate(w io.Writer, units []Unit, opts ...Option) error {
	ps, err := ParseUnits(units)
	if err != nil {
		return err
	}
	p, err := New(opts...).Program(ps)
	if err != nil {
		return err
	}
	_, err = p.WriteTo(w)
	return errors.Wrap(err, "output failed")
}

// defines returns true if one of the units defines function name.
func defines(units []Parsed, name string) bool {
	for _, u := range units {
		for _, c := range u.Commands {
			if c.Kind == vm.Function && c.Name == name {
				return true
			}
		}
	}
	return false
}

// Program generates the code of a whole program, preceded by the bootstrap
// code as selected by the WithBootstrap option. The Generator should be fresh:
// each call to Program continues the translation state left by the previous
// one.
func (g *Generator) Program(units []Parsed) (hack.Program, error) {
	var p hack.Program
	if g.boot == BootstrapAlways || g.boot == BootstrapAuto && defines(units, g.entry) {
		p = g.Bootstrap(p)
	}
	var err error
	for _, u := range units {
		g.SetFile(u.Name)
		if p, err = g.Generate(p, u.Commands); err != nil {
			return nil, errors.WithStack(err)
		}
		g.log.Debug("unit done", "name", g.file, "commands", len(u.Commands), "instructions", len(p))
	}
	return p, nil
}
