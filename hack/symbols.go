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

import "strconv"

// Word is the raw type stored in a memory location or ROM cell.
type Word int16

// Predefined RAM addresses.
const (
	SP     = 0
	LCL    = 1
	ARG    = 2
	THIS   = 3
	THAT   = 4
	R13    = 13
	R14    = 14
	R15    = 15
	Screen = 0x4000
	KBD    = 0x6000

	// TempBase and PointerBase are the fixed bases of the temp and pointer
	// segments.
	PointerBase = THIS
	TempBase    = 5

	// VarBase is the first RAM address assigned to assembler variables.
	VarBase = 16

	// StackBase is the conventional initial value of SP.
	StackBase = 256

	// RAMSize is the number of addressable RAM cells, KBD included.
	RAMSize = KBD + 1
	// ROMSize is the maximum program size in words.
	ROMSize = 0x8000
	// MaxConstant is the largest value an A-instruction can load.
	MaxConstant = 0x7fff
)

// Predefined maps the assembler's predefined symbols to their value.
var Predefined = map[string]int{
	"SP":     SP,
	"LCL":    LCL,
	"ARG":    ARG,
	"THIS":   THIS,
	"THAT":   THAT,
	"SCREEN": Screen,
	"KBD":    KBD,
}

func init() {
	for i := 0; i < 16; i++ {
		Predefined["R"+strconv.Itoa(i)] = i
	}
}

// IsPredefined returns true if s is a predefined symbol.
func IsPredefined(s string) bool {
	_, ok := Predefined[s]
	return ok
}
