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

package vm_test

import (
	"testing"

	"github.com/db47h/hackvm/vm"
	"github.com/pkg/errors"
)

func TestResolve(t *testing.T) {
	data := []struct {
		seg vm.Segment
		idx int
		exp vm.Location
	}{
		{vm.Local, 3, vm.Location{Strategy: vm.Indirect, Base: "LCL", Index: 3}},
		{vm.Argument, 0, vm.Location{Strategy: vm.Indirect, Base: "ARG"}},
		{vm.This, 100, vm.Location{Strategy: vm.Indirect, Base: "THIS", Index: 100}},
		{vm.That, 1, vm.Location{Strategy: vm.Indirect, Base: "THAT", Index: 1}},
		{vm.Static, 4, vm.Location{Strategy: vm.Symbolic, Symbol: "Foo.4", Index: 4}},
		{vm.Constant, 17, vm.Location{Strategy: vm.Immediate, Index: 17}},
		{vm.Pointer, 1, vm.Location{Strategy: vm.Direct, Addr: 3, Index: 1}},
		{vm.Temp, 7, vm.Location{Strategy: vm.Direct, Addr: 5, Index: 7}},
	}
	for _, d := range data {
		c := vm.Command{Kind: vm.Push, Segment: d.seg, Index: d.idx}
		l, err := vm.Resolve(c, "Foo")
		if err != nil {
			t.Errorf("%v: %v", c, err)
			continue
		}
		if l != d.exp {
			t.Errorf("%v: expected %+v, got %+v", c, d.exp, l)
		}
		if l.Strategy != d.seg.Strategy() {
			t.Errorf("%v: strategy mismatch", c)
		}
	}
}

func TestResolve_errors(t *testing.T) {
	data := []struct {
		c   vm.Command
		msg string
	}{
		{vm.Command{Kind: vm.Pop, Segment: vm.Constant, Index: 3}, "pop constant 3: cannot pop to the constant segment"},
		{vm.Command{Kind: vm.Push, Segment: vm.Temp, Index: 8}, "push temp 8: index out of range 0-7"},
		{vm.Command{Kind: vm.Pop, Segment: vm.Pointer, Index: 2}, "pop pointer 2: index out of range 0-1"},
		{vm.Command{Kind: vm.Push, Segment: vm.Static}, "push static 0: static access outside of a named unit"},
		{vm.Command{Kind: vm.Label, Name: "x"}, "label local 0: not a memory access"},
	}
	for _, d := range data {
		unit := "Foo"
		if d.c.Segment == vm.Static {
			unit = ""
		}
		_, err := vm.Resolve(d.c, unit)
		var e *vm.UnsupportedOperationError
		if !errors.As(err, &e) {
			t.Errorf("%v: expected *UnsupportedOperationError, got %v", d.c, err)
			continue
		}
		if e.Command != d.c.Kind || e.Segment != d.c.Segment {
			t.Errorf("%v: bad error fields %#v", d.c, e)
		}
		if err.Error() != d.msg {
			t.Errorf("%v: expected %q, got %q", d.c, d.msg, err)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, s := range []string{"local", "argument", "this", "that", "static", "constant", "pointer", "temp"} {
		seg, ok := vm.LookupSegment(s)
		if !ok || seg.String() != s {
			t.Errorf("segment %s: got %v, %v", s, seg, ok)
		}
	}
	if _, ok := vm.LookupSegment("heap"); ok {
		t.Error("unexpected segment heap")
	}
	for _, s := range []string{"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not"} {
		op, ok := vm.LookupOp(s)
		if !ok || op.String() != s {
			t.Errorf("op %s: got %v, %v", s, op, ok)
		}
	}
	if !vm.Neg.Unary() || vm.Sub.Unary() || !vm.Lt.Comparison() || vm.And.Comparison() {
		t.Error("bad operator classification")
	}
}
