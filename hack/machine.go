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
	"context"
	"log/slog"

	"github.com/db47h/hackvm/internal/hvi"
	"github.com/pkg/errors"
)

// ErrCycleLimit is returned by Run and RunUntil when the cycle budget is
// exhausted before the machine halts.
var ErrCycleLimit = errors.New("cycle limit reached")

// Keyboard is the device behind the KBD memory location. Key returns the code
// of the key currently pressed, or 0.
type Keyboard interface {
	Key() Word
}

// Machine represents a Hack computer.
type Machine struct {
	PC     int    // Program Counter
	A      Word   // A register
	D      Word   // D register
	ROM    []Word // instruction memory
	RAM    []Word // data memory
	kbd    Keyboard
	log    *slog.Logger
	cycles int64
	halted bool
}

// Option interface
type Option func(*Machine) error

// WithKeyboard connects the keyboard device. Without a keyboard, KBD reads
// as a plain RAM cell.
func WithKeyboard(k Keyboard) Option {
	return func(m *Machine) error {
		m.kbd = k
		return nil
	}
}

// WithRAM sets the RAM size in cells. The default is RAMSize. Existing
// contents are preserved.
func WithRAM(cells int) Option {
	return func(m *Machine) error {
		if cells <= 0 || cells > RAMSize {
			return errors.Errorf("invalid RAM size %d", cells)
		}
		t := make([]Word, cells)
		copy(t, m.RAM)
		m.RAM = t
		return nil
	}
}

// WithLogger sets the logger used to report halts and, at hvi.LevelTrace,
// every executed instruction.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) error {
		m.log = l
		return nil
	}
}

// SetOptions sets the provided options.
func (m *Machine) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Hack machine with the given program loaded in ROM.
//
// Options will be set by calling SetOptions.
func New(rom []Word, opts ...Option) (*Machine, error) {
	if len(rom) > ROMSize {
		return nil, errors.Errorf("program too large: %d words", len(rom))
	}
	m := &Machine{
		ROM: rom,
		RAM: make([]Word, RAMSize),
		log: hvi.Discard,
	}
	if err := m.SetOptions(opts...); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset sets the PC back to 0 and clears the halted state. RAM and registers
// are left untouched, as with the hardware reset line.
func (m *Machine) Reset() {
	m.PC = 0
	m.cycles = 0
	m.halted = false
}

// Halted returns true once the machine has entered its final loop or run past
// the end of ROM.
func (m *Machine) Halted() bool {
	return m.halted
}

// Cycles returns the number of instructions executed since the last reset.
func (m *Machine) Cycles() int64 {
	return m.cycles
}

// Peek returns the RAM cell at addr, or 0 if addr is out of range.
func (m *Machine) Peek(addr int) Word {
	if addr < 0 || addr >= len(m.RAM) {
		return 0
	}
	return m.RAM[addr]
}

// Poke sets the RAM cell at addr. Out of range addresses are ignored.
func (m *Machine) Poke(addr int, v Word) {
	if addr >= 0 && addr < len(m.RAM) {
		m.RAM[addr] = v
	}
}

func (m *Machine) read(addr int) (Word, error) {
	if addr == KBD && m.kbd != nil {
		return m.kbd.Key(), nil
	}
	if addr >= len(m.RAM) {
		return 0, errors.Errorf("pc %d: read from RAM address %d out of range", m.PC, addr)
	}
	return m.RAM[addr], nil
}

func (m *Machine) write(addr int, v Word) error {
	if addr >= len(m.RAM) {
		return errors.Errorf("pc %d: write to RAM address %d out of range", m.PC, addr)
	}
	m.RAM[addr] = v
	return nil
}

// alu computes a Hack ALU output for the comp control bits c1..c6 (c1 being
// bit 5).
func alu(x, y Word, c uint16) Word {
	if c&0x20 != 0 {
		x = 0
	}
	if c&0x10 != 0 {
		x = ^x
	}
	if c&0x08 != 0 {
		y = 0
	}
	if c&0x04 != 0 {
		y = ^y
	}
	var out Word
	if c&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if c&0x01 != 0 {
		out = ^out
	}
	return out
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}
	if m.PC < 0 || m.PC >= len(m.ROM) {
		m.halt()
		return nil
	}
	ins := m.ROM[m.PC]
	m.cycles++
	if m.log.Enabled(context.Background(), hvi.LevelTrace) {
		m.log.Log(context.Background(), hvi.LevelTrace, "step", "pc", m.PC, "ins", uint16(ins), "a", m.A, "d", m.D)
	}
	if ins >= 0 {
		m.A = ins
		m.PC++
		return nil
	}

	u := uint16(ins)
	addr := int(uint16(m.A))
	y := m.A
	if u&0x1000 != 0 {
		v, err := m.read(addr)
		if err != nil {
			return err
		}
		y = v
	}
	out := alu(m.D, y, u>>6&0x3f)

	dest := u >> 3 & 7
	if dest&1 != 0 {
		if err := m.write(addr, out); err != nil {
			return err
		}
	}
	if dest&2 != 0 {
		m.D = out
	}
	if dest&4 != 0 {
		m.A = out
	}

	j := u & 7
	if (j&4 != 0 && out < 0) || (j&2 != 0 && out == 0) || (j&1 != 0 && out > 0) {
		// (L) @L 0;JMP
		if j == 7 && addr == m.PC-1 && m.ROM[addr] == Word(addr) {
			m.PC = addr
			m.halt()
			return nil
		}
		m.PC = addr
		return nil
	}
	m.PC++
	return nil
}

func (m *Machine) halt() {
	m.halted = true
	m.log.Debug("halted", "pc", m.PC, "cycles", m.cycles)
}

// Run executes instructions until the machine halts. If maxCycles is greater
// than 0 and that many instructions have been executed since the last reset
// without halting, Run returns an error wrapping ErrCycleLimit.
//
// If an error occurs, the PC will point to the instruction that triggered the
// error.
func (m *Machine) Run(maxCycles int64) error {
	return m.RunUntil(-1, maxCycles)
}

// RunUntil works like Run but also stops, without error, as soon as the PC
// reaches the address pc.
func (m *Machine) RunUntil(pc int, maxCycles int64) error {
	for !m.halted && m.PC != pc {
		if maxCycles > 0 && m.cycles >= maxCycles {
			m.log.Debug("cycle limit reached", "pc", m.PC, "cycles", m.cycles)
			return errors.Wrapf(ErrCycleLimit, "pc %d", m.PC)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
