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
	"io"
	"sync/atomic"

	"github.com/db47h/hackvm/hack"
)

// Hack key codes.
const (
	keyNewline   = 128
	keyBackspace = 129
	keyLeft      = 130
	keyUp        = 131
	keyRight     = 132
	keyDown      = 133
	keyHome      = 134
	keyEnd       = 135
	keyPageUp    = 136
	keyPageDown  = 137
	keyInsert    = 138
	keyDelete    = 139
	keyEsc       = 140
	keyF1        = 141
)

// keyHold is the number of KBD reads during which a key from the input stream
// is seen as pressed. Programs usually wait for a key to be released before
// reading the next one.
const keyHold = 64

var csiKeys = map[string]hack.Word{
	"A":  keyUp,
	"B":  keyDown,
	"C":  keyRight,
	"D":  keyLeft,
	"H":  keyHome,
	"F":  keyEnd,
	"1~": keyHome,
	"2~": keyInsert,
	"3~": keyDelete,
	"4~": keyEnd,
	"5~": keyPageUp,
	"6~": keyPageDown,
}

// decodeKeys converts a chunk of terminal input to Hack key codes. A chunk
// starting with ESC is decoded as a single escape sequence.
func decodeKeys(b []byte) []hack.Word {
	if len(b) > 1 && b[0] == 0x1b {
		switch b[1] {
		case '[':
			if k, ok := csiKeys[string(b[2:])]; ok {
				return []hack.Word{k}
			}
		case 'O':
			if len(b) == 3 && b[2] >= 'P' && b[2] <= 'S' {
				return []hack.Word{keyF1 + hack.Word(b[2]-'P')}
			}
		}
		return nil
	}
	keys := make([]hack.Word, 0, len(b))
	for _, c := range b {
		switch {
		case c == '\r' || c == '\n':
			keys = append(keys, keyNewline)
		case c == 127 || c == 8:
			keys = append(keys, keyBackspace)
		case c == 0x1b:
			keys = append(keys, keyEsc)
		case c >= 32 && c < 127:
			keys = append(keys, hack.Word(c))
		}
	}
	return keys
}

// keyboard is a hack.Keyboard fed by a byte stream. Key must only be called
// from the goroutine running the machine.
type keyboard struct {
	pending     chan hack.Word
	interrupted atomic.Bool
	cur         hack.Word
	hold        int
}

func newKeyboard() *keyboard {
	return &keyboard{pending: make(chan hack.Word, 256)}
}

// Key implements hack.Keyboard.
func (k *keyboard) Key() hack.Word {
	if k.hold > 0 {
		k.hold--
		return k.cur
	}
	if k.cur != 0 {
		// report a release between two keys
		k.cur = 0
		return 0
	}
	select {
	case k.cur = <-k.pending:
		k.hold = keyHold - 1
	default:
	}
	return k.cur
}

// Interrupted returns true once the user has hit CTRL-C or CTRL-D.
func (k *keyboard) Interrupted() bool {
	return k.interrupted.Load()
}

// feed reads r until EOF or CTRL-C/CTRL-D and queues decoded keys. Keys are
// dropped when the queue is full.
func (k *keyboard) feed(r io.Reader) {
	b := make([]byte, 16)
	for {
		n, err := r.Read(b)
		for _, c := range b[:n] {
			if c == 3 || c == 4 {
				k.interrupted.Store(true)
				return
			}
		}
		for _, c := range decodeKeys(b[:n]) {
			select {
			case k.pending <- c:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}
