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
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/db47h/hackvm/asm"
	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
	"github.com/db47h/hackvm/lang/jack"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
)

// runSlice is the number of instructions executed between two checks for a
// user interrupt.
const runSlice = 1 << 16

var (
	debug     bool
	stackAddr = hack.StackBase
)

func readUnit(fileName string) (codegen.Unit, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return codegen.Unit{}, errors.WithStack(err)
	}
	return codegen.Unit{Name: fileName, Source: bytes.NewReader(b)}, nil
}

// readUnits loads the source units named on the command line: .vm files,
// directories, whose .vm files are loaded in name order, or "-" for stdin.
func readUnits(inputs []string, stdin io.Reader) ([]codegen.Unit, error) {
	var units []codegen.Unit
	for _, in := range inputs {
		if in == "-" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return nil, errors.Wrap(err, "stdin")
			}
			units = append(units, codegen.Unit{Name: "stdin", Source: bytes.NewReader(b)})
			continue
		}
		fi, err := os.Stat(in)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !fi.IsDir() {
			u, err := readUnit(in)
			if err != nil {
				return nil, err
			}
			units = append(units, u)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		n := len(units)
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".vm" {
				continue
			}
			u, err := readUnit(filepath.Join(in, e.Name()))
			if err != nil {
				return nil, err
			}
			units = append(units, u)
		}
		if len(units) == n {
			return nil, errors.Errorf("%s: no .vm files found", in)
		}
	}
	return units, nil
}

func writeFile(fileName string, write func(w io.Writer) error) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.WithStack(err)
	}
	w := bufio.NewWriter(f)
	err = write(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, fileName)
}

func runMachine(m *hack.Machine, maxCycles int64, kbd *keyboard, log *slog.Logger) error {
	for budget := int64(0); budget < maxCycles; {
		budget = min(budget+runSlice, maxCycles)
		err := m.Run(budget)
		if err == nil {
			return nil
		}
		if !errors.Is(err, hack.ErrCycleLimit) {
			return err
		}
		if kbd != nil && kbd.Interrupted() {
			log.Warn("interrupted", "pc", m.PC, "cycles", m.Cycles())
			return nil
		}
	}
	log.Warn("cycle limit reached", "pc", m.PC, "cycles", m.Cycles())
	return nil
}

func atExit(m *hack.Machine, err error) {
	if err == nil {
		atexit.Exit(0)
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		atexit.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	if m != nil {
		fmt.Fprintf(os.Stderr, "PC: %d, A: %d, D: %d, Stack: %v\n", m.PC, m.A, m.D, jack.Stack(m, stackAddr))
	}
	atexit.Exit(1)
}

func main() {
	var (
		err error
		m   *hack.Machine
	)
	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		if ferr := stdout.Flush(); err == nil {
			err = ferr
		}
		atExit(m, err)
	}()

	var configFile string
	fc := defaultConfig()
	flag.StringVar(&fc.Output, "o", "", "write assembly to `filename`")
	flag.StringVar(&configFile, "config", "", "load settings from YAML `file`")
	flag.Var((*entryName)(&fc.Entry), "entry", "`function` called by the bootstrap code")
	flag.Var((*stackBase)(&fc.StackBase), "base", "initial stack pointer `address`")
	flag.Var(&fc.Bootstrap, "bootstrap", "bootstrap `mode`: auto, always or never")
	flag.BoolVar(&fc.Check, "check", false, "assemble the output and report errors")
	flag.StringVar(&fc.Hack, "hack", "", "write Hack binary code to `filename`")
	flag.Int64Var(&fc.Run, "run", 0, "run the program for at most `cycles` instructions")
	flag.BoolVar(&fc.Dump, "dump", false, "dump the machine state after running")
	flag.BoolVar(&fc.Table, "table", false, "print the machine state as tables after running")
	flag.BoolVar(&fc.NoRaw, "noraw", false, "disable raw terminal IO")
	flag.BoolVar(&fc.Debug, "debug", false, "enable debug diagnostics")
	flag.BoolVar(&fc.Trace, "trace", false, "log every executed instruction")
	flag.Parse()
	fc.Inputs = flag.Args()

	cfg := defaultConfig()
	if configFile != "" {
		if err = loadConfig(configFile, &cfg); err != nil {
			return
		}
	}
	merge(&cfg, &fc, flag.CommandLine)
	debug, stackAddr = cfg.Debug, cfg.StackBase

	level := slog.LevelInfo
	switch {
	case cfg.Trace:
		level = hvi.LevelTrace
	case cfg.Debug:
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if len(cfg.Inputs) == 0 {
		err = errors.New("no input files")
		return
	}
	units, err := readUnits(cfg.Inputs, os.Stdin)
	if err != nil {
		return
	}
	ps, err := codegen.ParseUnits(units)
	if err != nil {
		return
	}
	g := codegen.New(
		codegen.Entry(cfg.Entry),
		codegen.StackBase(cfg.StackBase),
		codegen.WithBootstrap(cfg.Bootstrap.Bootstrap),
		codegen.Logger(log))
	prog, err := g.Program(ps)
	if err != nil {
		return
	}

	switch {
	case cfg.Output != "":
		err = writeFile(cfg.Output, func(w io.Writer) error {
			_, err := prog.WriteTo(w)
			return err
		})
	case cfg.Run == 0 && cfg.Hack == "":
		_, err = prog.WriteTo(stdout)
	}
	if err != nil {
		return
	}

	if !cfg.Check && cfg.Hack == "" && cfg.Run <= 0 {
		return
	}
	name := cfg.Output
	if name == "" {
		name = "output"
	}
	img, err := asm.AssembleProgram(name, prog)
	if err != nil {
		err = errors.Wrap(err, "assembly failed")
		return
	}
	log.Debug("assembled", "words", len(img.Code), "variables", len(img.Vars))

	if cfg.Hack != "" {
		if err = writeFile(cfg.Hack, func(w io.Writer) error { return asm.WriteHack(w, img.Code) }); err != nil {
			return
		}
	}
	if cfg.Run <= 0 {
		return
	}

	if m, err = hack.New(img.Code, hack.WithLogger(log)); err != nil {
		return
	}
	var kbd *keyboard
	if !slices.Contains(cfg.Inputs, "-") {
		if !cfg.NoRaw {
			if restore, rerr := setRawIO(); rerr == nil {
				atexit.Register(restore)
			} else {
				log.Debug("raw IO disabled", "reason", rerr)
			}
		}
		kbd = newKeyboard()
		go kbd.feed(os.Stdin)
		if err = m.SetOptions(hack.WithKeyboard(kbd)); err != nil {
			return
		}
	}
	if err = runMachine(m, cfg.Run, kbd, log); err != nil {
		return
	}

	if cfg.Dump {
		if err = jack.DumpMachine(m, cfg.StackBase, stdout); err != nil {
			return
		}
		stdout.WriteByte('\n')
	}
	if cfg.Table {
		dumpTables(stdout, m, cfg.StackBase, jack.NewSymbols(img.Labels))
	}
}
