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

// Package codegen translates VM commands into Hack assembly.
//
// A Generator holds the translation state of one whole program: the name of
// the unit being translated (used to name static variables), the function
// currently open (used to scope labels) and a label counter that is never
// reset. All units of a program must go through the same Generator, in order,
// so that every label it defines is unique program-wide.
//
// Generated code uses R13 and R14 as scratch registers. Generated labels all
// start with a '$', which the VM language forbids in user names:
//
//	$EQ.n, $GT.n, $LT.n	comparison branch targets
//	$RET.n			return addresses
//	f$l			label l in function f
//
// The call protocol pushes the return address and the caller's LCL, ARG, THIS
// and THAT, in that order, then sets ARG to the first argument and LCL to the
// new top of stack:
//
//	ARG ->	argument 0
//		...
//		argument n-1
//		return address
//		saved LCL
//		saved ARG
//		saved THIS
//		saved THAT
//	LCL ->	local 0
//		...
//	SP ->
//
// Upon return, the value on top of the stack replaces argument 0 and SP is set
// just above it. A function must therefore always push exactly one value
// before returning. This is not checked at run time.
package codegen
