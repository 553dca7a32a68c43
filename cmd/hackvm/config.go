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

package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/vm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config holds all settings. It can be loaded from a YAML file with -config.
// Command line flags take precedence over the file.
type config struct {
	Output    string   `yaml:"output"`
	Entry     string   `yaml:"entry"`
	StackBase int      `yaml:"stack_base"`
	Bootstrap mode     `yaml:"bootstrap"`
	Check     bool     `yaml:"check"`
	Hack      string   `yaml:"hack"`
	Run       int64    `yaml:"run"`
	Dump      bool     `yaml:"dump"`
	Table     bool     `yaml:"table"`
	NoRaw     bool     `yaml:"noraw"`
	Debug     bool     `yaml:"debug"`
	Trace     bool     `yaml:"trace"`
	Inputs    []string `yaml:"inputs"`
}

func defaultConfig() config {
	return config{
		Entry:     codegen.DefaultEntry,
		StackBase: hack.StackBase,
	}
}

// mode wraps codegen.Bootstrap for use as a flag.Value and in YAML.
type mode struct {
	codegen.Bootstrap
}

func (m *mode) Set(s string) error {
	b, err := codegen.ParseBootstrap(s)
	if err != nil {
		return err
	}
	m.Bootstrap = b
	return nil
}

func (m *mode) Get() interface{} { return m.Bootstrap }

func (m *mode) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return errors.Wrapf(m.Set(s), "line %d", n.Line)
}

func (m mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// stackBase is a flag.Value that only accepts valid RAM addresses.
type stackBase int

func (b *stackBase) String() string { return strconv.Itoa(int(*b)) }
func (b *stackBase) Set(s string) error {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil || n >= hack.Screen {
		return errors.Errorf("invalid stack base %q", s)
	}
	*b = stackBase(n)
	return nil
}
func (b *stackBase) Get() interface{} { return int(*b) }

// validEntry reports whether name can be called by the bootstrap code: a valid
// function name that is not a predefined Hack symbol.
func validEntry(name string) bool {
	return vm.ValidName(name) && !hack.IsPredefined(name)
}

// entryName is a flag.Value that only accepts valid entry function names.
type entryName string

func (e *entryName) String() string { return string(*e) }
func (e *entryName) Set(s string) error {
	if !validEntry(s) {
		return errors.Errorf("invalid entry function %q", s)
	}
	*e = entryName(s)
	return nil
}
func (e *entryName) Get() interface{} { return string(*e) }

func loadConfig(fileName string, c *config) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(c); err != nil {
		return errors.Wrapf(err, "%s", fileName)
	}
	if c.StackBase < 0 || c.StackBase >= hack.Screen {
		return errors.Errorf("%s: invalid stack base %d", fileName, c.StackBase)
	}
	if !validEntry(c.Entry) {
		return errors.Errorf("%s: invalid entry function %q", fileName, c.Entry)
	}
	return nil
}

// merge copies into dst the fields of src whose flags have been set on the
// command line.
func merge(dst, src *config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			dst.Output = src.Output
		case "entry":
			dst.Entry = src.Entry
		case "base":
			dst.StackBase = src.StackBase
		case "bootstrap":
			dst.Bootstrap = src.Bootstrap
		case "check":
			dst.Check = src.Check
		case "hack":
			dst.Hack = src.Hack
		case "run":
			dst.Run = src.Run
		case "dump":
			dst.Dump = src.Dump
		case "table":
			dst.Table = src.Table
		case "noraw":
			dst.NoRaw = src.NoRaw
		case "debug":
			dst.Debug = src.Debug
		case "trace":
			dst.Trace = src.Trace
		}
	})
	if len(src.Inputs) > 0 {
		dst.Inputs = src.Inputs
	}
}
