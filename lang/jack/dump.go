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

package jack

import (
	"io"
	"strconv"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
)

func dumpSlice(w io.Writer, prefix byte, a []hack.Word) error {
	b := make([]byte, 0, 8)
	b = append(b, prefix)
	for i, v := range a {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		if _, err := w.Write(b); err != nil {
			return err
		}
		b = b[:0]
	}
	_, err := w.Write(b)
	return err
}

// DumpMachine dumps the machine state to the specified io.Writer: the
// working stack starting at base, then the pointer registers SP, LCL, ARG,
// THIS and THAT, then the temp segment (R5 to R12). Groups are prefixed with
// the ASCII file separator (0x1C) and group separator (0x1D).
func DumpMachine(m *hack.Machine, base int, w io.Writer) error {
	ew := hvi.NewErrWriter(w)
	if err := dumpSlice(ew, '\x1C', Stack(m, base)); err != nil {
		return err
	}
	regs := make([]hack.Word, 0, 5)
	for a := hack.SP; a <= hack.THAT; a++ {
		regs = append(regs, m.Peek(a))
	}
	if err := dumpSlice(ew, '\x1D', regs); err != nil {
		return err
	}
	temp := make([]hack.Word, 8)
	for i := range temp {
		temp[i] = m.Peek(hack.TempBase + i)
	}
	return dumpSlice(ew, '\x1D', temp)
}
