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

// Package asm provides utility functions to assemble and disassemble Hack
// machine code.
//
// Syntax:
//
// One instruction per line. White space is not significant and "//" starts a
// comment running to the end of the line.
//
//	@value		load the decimal constant value (0-32767) into A
//	@symbol		load the value of symbol into A
//	dest=comp;jump	C-instruction, either of "dest=" and ";jump" may be omitted
//	(symbol)	define symbol as the address of the next instruction
//
// dest is any combination of the letters A, D and M, in any order. comp is one
// of:
//
//	0  1  -1  D  A  M  !D  !A  !M  -D  -A  -M
//	D+1  A+1  M+1  D-1  A-1  M-1  D+A  D+M  D-A  D-M  A-D  M-D
//	D&A  D&M  D|A  D|M
//
// Commutative operations may also be written with their operands swapped
// (A+D, 1+M, M&D, ...). jump is one of JGT, JEQ, JGE, JLT, JNE, JLE and JMP.
//
// Symbols:
//
// A symbol is a sequence of letters, digits, '_', '.', '$' and ':' that does
// not start with a digit. The following symbols are predefined:
//
//	SP	0
//	LCL	1
//	ARG	2
//	THIS	3
//	THAT	4
//	R0-R15	0-15
//	SCREEN	16384
//	KBD	24576
//
// Labels may be used before their definition. Defining the same label twice
// is an error. A symbol that is neither predefined nor a label is a variable:
// variables are assigned consecutive RAM addresses starting at 16, in order of
// first use.
package asm
