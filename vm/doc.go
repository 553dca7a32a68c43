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

// Package vm implements the front end of the VM language: command types,
// the line parser and the memory segment resolver.
//
// The VM language is the stack-based intermediate language of the nand2tetris
// Jack platform. A program is a set of source units (usually one per class),
// each being a list of commands, one per line:
//
//	command			stack	description
//	-------			-----	------------------------------------------------
//	push <seg> <i>		-x	push the value of cell i of segment seg
//	pop <seg> <i>		x-	pop the top value into cell i of segment seg
//	add, sub, and, or	xy-z	binary operators
//	neg, not		x-y	unary operators
//	eq, gt, lt		xy-b	comparisons: -1 if true, 0 if false
//	label <name>			define a label in the current function
//	goto <name>			unconditional jump
//	if-goto <name>		b-	jump if the popped value is not 0
//	function <f> <n>	-0…0	define function f with n locals set to 0
//	call <f> <n>		a…-r	call f with the top n values as arguments
//	return			r-	return r to the caller
//
// A "//" starts a comment that runs to the end of the line. Blank lines are
// ignored.
//
// Segments:
//
//	segment		addressing
//	-------		--------------------------------------------------------
//	local		indirect, base in LCL
//	argument	indirect, base in ARG
//	this		indirect, base in THIS
//	that		indirect, base in THAT
//	pointer		direct, cells 3-4 (aliases THIS and THAT)
//	temp		direct, cells 5-12
//	static		one symbol per unit and index: <unit>.<index>
//	constant	immediate, push only
//
// Names of labels and functions are made of letters, digits, '_', '.' and ':'
// and may not start with a digit. The '$' character is reserved for symbols
// generated by the translator.
package vm
