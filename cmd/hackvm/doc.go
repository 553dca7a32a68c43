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

// The hackvm command line tool translates programs written in the VM
// language to Hack assembly. It can also assemble the result and run it on a
// built-in Hack emulator.
//
// Usage:
//
//	hackvm [flags] input...
//
// Each input is either a .vm file, a directory, in which case all the .vm
// files it contains are translated in file name order, or "-" to read a
// single unit from stdin. Units are translated in command line order into a
// single program.
//
// Flags:
//
//	-base address
//		  initial stack pointer address (default 256)
//	-bootstrap mode
//		  bootstrap mode: auto, always or never (default auto)
//	-check
//		  assemble the output and report errors
//	-config file
//		  load settings from YAML file
//	-debug
//		  enable debug diagnostics
//	-dump
//		  dump the machine state after running
//	-entry function
//		  function called by the bootstrap code (default Sys.init)
//	-hack filename
//		  write Hack binary code to filename
//	-noraw
//		  disable raw terminal IO
//	-o filename
//		  write assembly to filename
//	-run cycles
//		  run the program for at most cycles instructions
//	-table
//		  print the machine state as tables after running
//	-trace
//		  log every executed instruction
//
// -o: the assembly is written to stdout if -o is not given, unless -run or
// -hack is set.
//
// -bootstrap: in auto mode, the bootstrap code that sets up the stack and
// calls the entry function is emitted only if one of the units defines the
// entry function.
//
// -run: the program is assembled and run until it enters its final loop
// (a jump to itself like "(END) @END 0;JMP"), runs past the end of ROM or
// reaches the cycle limit. Unless stdin is one of the inputs, keys typed on the
// terminal are fed to the KBD register. Stdin is switched to raw mode unless
// -noraw is set or stdin is not a terminal. In raw mode, hit CTRL-C or CTRL-D
// to stop the program.
//
// -dump: dumps the working stack, the SP, LCL, ARG, THIS and THAT registers
// and the temp segment to stdout, each group prefixed by an ASCII separator
// (0x1C then 0x1D).
//
// -config: settings are read from a YAML file. Flags given on the command line
// take precedence. Input files listed in the configuration are used only if
// none is given on the command line. Example:
//
//	entry: Main.main
//	stack_base: 256
//	bootstrap: always
//	run: 1000000
//	table: true
//	inputs:
//	  - src/
//
// -debug: will print a full stacktrace on errors and log translation
// progress.
package main
