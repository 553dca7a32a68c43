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

package codegen

import (
	"strconv"
	"text/scanner"
)

// DuplicateSymbolError is returned when a label, function or static variable
// would use the same assembly symbol as an earlier definition or as a
// predefined symbol. Translating such a program would make the assembler see
// two definitions of the same label.
type DuplicateSymbolError struct {
	Pos        scanner.Position
	Symbol     string
	Prev       scanner.Position // position of the earlier definition
	Predefined bool             // Symbol is a predefined Hack symbol
}

func (e *DuplicateSymbolError) Error() string {
	var s string
	if e.Pos.IsValid() {
		s = e.Pos.String() + ": "
	}
	if e.Predefined {
		return s + "symbol " + strconv.Quote(e.Symbol) + " clashes with a predefined symbol"
	}
	s += "symbol " + strconv.Quote(e.Symbol) + " already defined"
	if e.Prev.IsValid() {
		s += " at " + e.Prev.String()
	}
	return s
}
