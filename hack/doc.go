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

// Package hack describes the Hack computer targeted by the translator: its
// memory map, the assembly instruction records emitted by code generators, and
// a CPU emulator able to run assembled programs.
//
// Memory map:
//
//	address		symbol		use
//	-------		------		--------------------------------------------
//	0		SP		stack pointer
//	1		LCL		base of the current function's local segment
//	2		ARG		base of the current function's argument segment
//	3		THIS		base of the this segment (pointer 0)
//	4		THAT		base of the that segment (pointer 1)
//	5-12		R5-R12		temp segment
//	13-15		R13-R15		scratch registers for generated code
//	16-255				static variables
//	256-2047			stack
//	16384-24575	SCREEN		memory mapped screen
//	24576		KBD		memory mapped keyboard
//
// Instructions:
//
// An Instr is one line of Hack assembly: an A-instruction (@value or @symbol),
// a C-instruction (dest=comp;jump) or a label definition pseudo-instruction
// ((symbol)). A Program is an ordered sequence of Instr; it only becomes text
// when written with Program.WriteTo.
//
// Emulation:
//
// Machine executes assembled 16 bits words. C-instructions are evaluated by
// a software model of the Hack ALU driven by the six comp control bits, so any
// encodable comp field behaves as the hardware would, including the ones the
// assembler has no mnemonic for.
package hack
