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
	"fmt"
	"io"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/lang/jack"
	"github.com/jedib0t/go-pretty/v6/table"
)

// maxStackRows is the number of stack cells shown by -table, from the top.
const maxStackRows = 16

// dumpTables renders the machine state. base is the bottom of the stack.
func dumpTables(w io.Writer, m *hack.Machine, base int, syms *jack.Symbols) {
	regs := table.NewWriter()
	regs.SetOutputMirror(w)
	regs.SetTitle("Registers")
	regs.AppendHeader(table.Row{"PC", "function", "A", "D", "SP", "LCL", "ARG", "THIS", "THAT"})
	row := table.Row{m.PC, syms.Func(m.PC), m.A, m.D}
	for a := hack.SP; a <= hack.THAT; a++ {
		row = append(row, m.Peek(a))
	}
	regs.AppendRow(row)
	regs.Render()

	temp := table.NewWriter()
	temp.SetOutputMirror(w)
	temp.SetTitle("Temp")
	hdr := make(table.Row, 0, 8)
	row = make(table.Row, 0, 8)
	for i := 0; i < 8; i++ {
		hdr = append(hdr, fmt.Sprintf("R%d", hack.TempBase+i))
		row = append(row, m.Peek(hack.TempBase+i))
	}
	temp.AppendHeader(hdr)
	temp.AppendRow(row)
	temp.Render()

	bt := table.NewWriter()
	bt.SetOutputMirror(w)
	bt.SetTitle("Backtrace")
	bt.AppendHeader(table.Row{"#", "function", "LCL", "return", "caller"})
	fn := syms.Func(m.PC)
	for i, f := range jack.Backtrace(m, base) {
		caller := syms.Func(int(f.Return))
		bt.AppendRow(table.Row{i, fn, f.LCL, f.Return, caller})
		fn = caller
	}
	bt.Render()

	st := table.NewWriter()
	st.SetOutputMirror(w)
	st.SetTitle("Stack")
	st.AppendHeader(table.Row{"address", "value"})
	s := jack.Stack(m, base)
	start := 0
	if len(s) > maxStackRows {
		start = len(s) - maxStackRows
	}
	for i := len(s) - 1; i >= start; i-- {
		st.AppendRow(table.Row{base + i, s[i]})
	}
	if start > 0 {
		st.AppendFooter(table.Row{"...", fmt.Sprintf("%d more", start)})
	}
	st.Render()
}
