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

package codegen_test

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/db47h/hackvm/asm"
	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/hvi"
	"github.com/db47h/hackvm/vm"
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const maxCycles = 1000000

func parse(src string) []vm.Command {
	cmds, err := vm.Parse("Test.vm", strings.NewReader(src))
	Expect(err).NotTo(HaveOccurred())
	return cmds
}

func translate(g *codegen.Generator, p hack.Program, src string) hack.Program {
	p, err := g.Generate(p, parse(src))
	Expect(err).NotTo(HaveOccurred())
	return p
}

var halt = hack.Program{
	hack.Label("$HALT"),
	hack.At("$HALT"),
	hack.Jump("0", "JMP"),
}

// load assembles p and returns a machine with SP set to the stack base.
func load(p hack.Program) (*hack.Machine, *asm.Image) {
	img, err := asm.AssembleProgram("Test", p)
	Expect(err).NotTo(HaveOccurred())
	m, err := hack.New(img.Code)
	Expect(err).NotTo(HaveOccurred())
	m.Poke(hack.SP, hack.StackBase)
	return m, img
}

func run(m *hack.Machine) {
	Expect(m.Run(maxCycles)).To(Succeed())
	Expect(m.Halted()).To(BeTrue())
}

// exec translates src as unit Test, runs it and returns the halted machine.
func exec(src string, setup ...func(m *hack.Machine)) (*hack.Machine, *asm.Image) {
	g := codegen.New()
	g.SetFile("Test.vm")
	p := translate(g, nil, src)
	m, img := load(append(p, halt...))
	for _, f := range setup {
		f(m)
	}
	run(m)
	return m, img
}

func top(m *hack.Machine) hack.Word {
	return m.Peek(int(m.Peek(hack.SP)) - 1)
}

var suffix = regexp.MustCompile(`\$([A-Z]+)\.[0-9]+`)

var _ = Describe("Generator", func() {
	DescribeTable("arithmetic and logical commands",
		func(src string, exp int) {
			m, _ := exec(src)
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 1))
			Expect(top(m)).To(BeEquivalentTo(exp))
		},
		Entry("add", "push constant 7\npush constant 8\nadd", 15),
		Entry("sub", "push constant 7\npush constant 8\nsub", -1),
		Entry("neg", "push constant 5\nneg", -5),
		Entry("eq true", "push constant 3\npush constant 3\neq", -1),
		Entry("eq false", "push constant 3\npush constant 4\neq", 0),
		Entry("gt true", "push constant 8\npush constant 7\ngt", -1),
		Entry("gt false", "push constant 7\npush constant 8\ngt", 0),
		Entry("lt true", "push constant 7\npush constant 8\nlt", -1),
		Entry("lt false", "push constant 8\npush constant 7\nlt", 0),
		Entry("lt equal", "push constant 7\npush constant 7\nlt", 0),
		Entry("and", "push constant 12\npush constant 10\nand", 8),
		Entry("or", "push constant 12\npush constant 10\nor", 14),
		Entry("not", "push constant 0\nnot", -1),
		Entry("max constant", "push constant 32767\npush constant 1\nadd", -32768),
	)

	It("pops to the local segment", func() {
		m, _ := exec("push constant 7\npush constant 8\nadd\npop local 0", func(m *hack.Machine) {
			m.Poke(hack.LCL, 1000)
		})
		Expect(m.Peek(1000)).To(BeEquivalentTo(15))
		Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase))
	})

	It("reaches all segments", func() {
		m, img := exec(`
			push constant 3000
			pop pointer 0
			push constant 4000
			pop pointer 1
			push constant 11
			pop this 2
			push constant 22
			pop that 3
			push constant 33
			pop temp 7
			push constant 44
			pop static 1
			push constant 55
			pop argument 1
			push constant 66
			pop local 2
			push this 2
			push that 3
			add
			push temp 7
			add
			push static 1
			add
			push argument 1
			add
			push local 2
			add
			push pointer 0
			push pointer 1`, func(m *hack.Machine) {
			m.Poke(hack.LCL, 1000)
			m.Poke(hack.ARG, 2000)
		})
		Expect(m.Peek(hack.THIS)).To(BeEquivalentTo(3000))
		Expect(m.Peek(hack.THAT)).To(BeEquivalentTo(4000))
		Expect(m.Peek(3002)).To(BeEquivalentTo(11))
		Expect(m.Peek(4003)).To(BeEquivalentTo(22))
		Expect(m.Peek(12)).To(BeEquivalentTo(33))
		Expect(img.Vars).To(HaveKey("Test.1"))
		Expect(m.Peek(img.Vars["Test.1"])).To(BeEquivalentTo(44))
		Expect(m.Peek(2001)).To(BeEquivalentTo(55))
		Expect(m.Peek(1002)).To(BeEquivalentTo(66))
		Expect(m.Peek(hack.SP)).To(BeEquivalentTo(259))
		Expect(m.RAM[256:259]).To(Equal([]hack.Word{231, 3000, 4000}))
	})

	It("branches", func() {
		// sum of 1..10
		m, _ := exec(`
			push constant 0
			pop temp 0
			push constant 10
			pop temp 1
		label LOOP
			push temp 1
			push constant 0
			eq
			if-goto END
			push temp 0
			push temp 1
			add
			pop temp 0
			push temp 1
			push constant 1
			sub
			pop temp 1
			goto LOOP
		label END
			push temp 0`)
		Expect(top(m)).To(BeEquivalentTo(55))
		Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 1))
	})

	Describe("unique labels", func() {
		It("allocates distinct labels for each comparison", func() {
			g := codegen.New()
			p := translate(g, nil, "eq\neq")
			l := p.Labels()
			Expect(l).To(HaveLen(2))
			Expect(l[0]).NotTo(Equal(l[1]))

			p2 := translate(codegen.New(), nil, "eq\neq")
			Expect(p2.Labels()).To(Equal(l))
		})

		It("never reuses a label across families", func() {
			g := codegen.New()
			g.SetFile("A.vm")
			p := translate(g, nil, "function A.f 0\ncall A.f 0\nlt\ngt\ncall A.f 0\neq\nreturn")
			g.SetFile("B.vm")
			p = translate(g, p, "function B.f 0\neq\ncall A.f 0\nreturn")
			seen := make(map[string]bool)
			for _, l := range p.Labels() {
				Expect(seen).NotTo(HaveKey(l))
				seen[l] = true
			}
			Expect(seen).To(HaveLen(9))
		})

		It("translates identically up to label suffixes", func() {
			src := "push constant 1\npush constant 2\nlt\ncall Foo 2"
			fresh := translate(codegen.New(), nil, src)

			g := codegen.New()
			translate(g, nil, "eq\ngt\ncall Bar 0")
			used := translate(g, nil, src)

			var a, b bytes.Buffer
			_, err := fresh.WriteTo(&a)
			Expect(err).NotTo(HaveOccurred())
			_, err = used.WriteTo(&b)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.String()).NotTo(Equal(b.String()))
			Expect(suffix.ReplaceAllString(a.String(), "$$$1")).To(Equal(suffix.ReplaceAllString(b.String(), "$$$1")))
		})

		It("scopes labels to the enclosing function", func() {
			g := codegen.New()
			p := translate(g, nil, "label X\nfunction f 0\nlabel X\nfunction g 0\nlabel X\ngoto X")
			Expect(p.Labels()).To(Equal([]string{"X", "f", "f$X", "g", "g$X"}))
			Expect(p[len(p)-2]).To(Equal(hack.At("g$X")))
		})
	})

	Describe("function calls", func() {
		It("returns with the callee frame set up", func() {
			g := codegen.New()
			p := append(hack.Program(nil), halt...)
			p = translate(g, p, "function Foo 2\nreturn")
			m, img := load(p)
			// three arguments at 300, caller frame at 303
			for i, v := range []hack.Word{99, 1, 2, hack.Word(img.Labels["$HALT"]), 1111, 2222, 3333, 4444} {
				m.Poke(300+i, v)
			}
			m.Poke(hack.SP, 308)
			m.Poke(hack.LCL, 308)
			m.Poke(hack.ARG, 300)
			m.PC = img.Labels["Foo"]
			Expect(m.RunUntil(img.Labels["$HALT"], maxCycles)).To(Succeed())
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(301))
			// return value is the top of stack: the second local
			Expect(m.Peek(300)).To(BeEquivalentTo(0))
			Expect(m.RAM[hack.LCL : hack.THAT+1]).To(Equal([]hack.Word{1111, 2222, 3333, 4444}))
		})

		It("consumes arguments and leaves the return value", func() {
			g := codegen.New()
			p := translate(g, nil, "push constant 10\npush constant 20\ncall Foo 2")
			p = append(p, halt...)
			p = translate(g, p, "function Foo 1\npush argument 0\npush argument 1\nsub\npop local 0\npush local 0\nreturn")
			m, _ := load(p)
			m.Poke(hack.LCL, 256)
			m.Poke(hack.ARG, 250)
			m.Poke(hack.THIS, 3000)
			m.Poke(hack.THAT, 4000)
			run(m)
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 2 - 2 + 1))
			Expect(m.Peek(hack.StackBase)).To(BeEquivalentTo(-10))
			Expect(m.RAM[hack.LCL : hack.THAT+1]).To(Equal([]hack.Word{256, 250, 3000, 4000}))
		})

		It("returns from a function without arguments", func() {
			g := codegen.New()
			p := translate(g, nil, "call Foo 0")
			p = append(p, halt...)
			p = translate(g, p, "function Foo 0\npush constant 42\nreturn")
			m, _ := load(p)
			run(m)
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 1))
			Expect(m.Peek(hack.StackBase)).To(BeEquivalentTo(42))
		})

		It("assembles calls with the largest argument count", func() {
			var buf bytes.Buffer
			err := codegen.Translate(&buf, []codegen.Unit{
				{Name: "Foo.vm", Source: strings.NewReader("call Foo 32767\nfunction Foo 0\nreturn")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("@32767\nD=D-A\n@5\nD=D-A\n"))
			_, err = asm.Assemble("Foo.asm", &buf)
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs recursive programs", func() {
			var buf bytes.Buffer
			err := codegen.Translate(&buf, []codegen.Unit{
				{Name: "dir/Sys.vm", Source: strings.NewReader(sysVM)},
				{Name: "dir/Main.vm", Source: strings.NewReader(mainVM)},
			})
			Expect(err).NotTo(HaveOccurred())
			img, err := asm.Assemble("out.asm", &buf)
			Expect(err).NotTo(HaveOccurred())
			m, err := hack.New(img.Code)
			Expect(err).NotTo(HaveOccurred())
			run(m)
			Expect(img.Vars).To(HaveKey("Sys.0"))
			Expect(m.Peek(img.Vars["Sys.0"])).To(BeEquivalentTo(15))
			Expect(img.Vars).To(HaveKey("Main.0"))
			Expect(m.Peek(img.Vars["Main.0"])).To(BeEquivalentTo(6))
			// Sys.init frame
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 5))
		})
	})

	Describe("errors", func() {
		generate := func(src string) error {
			g := codegen.New()
			g.SetFile("Test.vm")
			_, err := g.Generate(nil, parse(src))
			return err
		}

		It("rejects duplicate labels", func() {
			err := generate("function f 0\nlabel L\npush constant 1\nlabel L")
			var e *codegen.DuplicateSymbolError
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Symbol).To(Equal("f$L"))
			Expect(e.Pos.Line).To(Equal(4))
			Expect(e.Prev.Line).To(Equal(2))
			Expect(err.Error()).To(Equal(`Test.vm:4:1: symbol "f$L" already defined at Test.vm:2:1`))
		})

		It("rejects duplicate functions", func() {
			var e *codegen.DuplicateSymbolError
			Expect(errors.As(generate("function f 0\nreturn\nfunction f 1"), &e)).To(BeTrue())
			Expect(e.Symbol).To(Equal("f"))
		})

		It("rejects predefined symbols", func() {
			var e *codegen.DuplicateSymbolError
			Expect(errors.As(generate("label SCREEN"), &e)).To(BeTrue())
			Expect(e.Predefined).To(BeTrue())
			Expect(errors.As(generate("function R13 0"), &e)).To(BeTrue())
			Expect(e.Symbol).To(Equal("R13"))
		})

		It("rejects functions named after static variables", func() {
			var e *codegen.DuplicateSymbolError
			Expect(errors.As(generate("push static 0\npop static 0\nfunction Test.0 0"), &e)).To(BeTrue())
			Expect(e.Symbol).To(Equal("Test.0"))
			Expect(e.Prev.Line).To(Equal(1))
		})

		It("rejects pops to the constant segment", func() {
			var e *vm.UnsupportedOperationError
			err := generate("push constant 1\npop constant 1")
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Command).To(Equal(vm.Pop))
			Expect(e.Segment).To(Equal(vm.Constant))
			Expect(e.Pos.Line).To(Equal(2))
		})

		It("rejects out of range indices", func() {
			var e *vm.UnsupportedOperationError
			Expect(errors.As(generate("push temp 8"), &e)).To(BeTrue())
			Expect(errors.As(generate("pop pointer 2"), &e)).To(BeTrue())
			Expect(e.Segment).To(Equal(vm.Pointer))
			Expect(generate("push temp 7\npop pointer 1")).To(Succeed())
		})

		It("leaves the program unchanged on error", func() {
			g := codegen.New()
			g.SetFile("Test.vm")
			p := translate(g, nil, "push constant 1")
			n := len(p)
			p, err := g.Append(p, vm.Command{Kind: vm.Pop, Segment: vm.Constant})
			Expect(err).To(HaveOccurred())
			Expect(p).To(HaveLen(n))
		})

		It("writes nothing when translation fails", func() {
			var buf bytes.Buffer
			err := codegen.Translate(&buf, []codegen.Unit{
				{Name: "A.vm", Source: strings.NewReader("push constant 1")},
				{Name: "B.vm", Source: strings.NewReader("push constant 1\nfrob")},
			})
			var e *vm.SyntaxError
			Expect(errors.As(err, &e)).To(BeTrue())
			Expect(e.Pos.Filename).To(Equal("B.vm"))
			Expect(e.Pos.Line).To(Equal(2))
			Expect(buf.Len()).To(BeZero())
		})
	})

	Describe("bootstrap", func() {
		translateAll := func(src string, opts ...codegen.Option) string {
			var buf bytes.Buffer
			err := codegen.Translate(&buf, []codegen.Unit{{Name: "Sys.vm", Source: strings.NewReader(src)}}, opts...)
			Expect(err).NotTo(HaveOccurred())
			return buf.String()
		}

		It("is emitted when the entry function is defined", func() {
			Expect(translateAll("function Sys.init 0")).To(HavePrefix("@256\nD=A\n@SP\nM=D\n@LCL\nM=D\n"))
			Expect(translateAll("function Sys.main 0")).To(HavePrefix("(Sys.main)\n"))
		})

		It("follows the bootstrap mode", func() {
			Expect(translateAll("push constant 1", codegen.WithBootstrap(codegen.BootstrapAlways))).To(HavePrefix("@256\n"))
			Expect(translateAll("function Sys.init 0", codegen.WithBootstrap(codegen.BootstrapNever))).To(HavePrefix("(Sys.init)\n"))
		})

		It("uses the configured entry point and stack base", func() {
			out := translateAll("function Sys.main 0", codegen.Entry("Sys.main"), codegen.StackBase(300))
			Expect(out).To(HavePrefix("@300\n"))
			Expect(out).To(ContainSubstring("@Sys.main\n0;JMP\n"))
		})

		It("sets up the stack", func() {
			g := codegen.New()
			p := g.Bootstrap(nil)
			p = append(p, halt...)
			p = translate(g, p, "function Sys.init 0\nlabel L\ngoto L")
			m, _ := load(p)
			m.Poke(hack.SP, 0)
			run(m)
			Expect(m.Peek(hack.SP)).To(BeEquivalentTo(hack.StackBase + 5))
			Expect(m.Peek(hack.LCL)).To(BeEquivalentTo(hack.StackBase + 5))
			Expect(m.Peek(hack.ARG)).To(BeEquivalentTo(hack.StackBase))
			Expect(m.RAM[hack.StackBase+1 : hack.StackBase+5]).To(Equal([]hack.Word{256, 256, 256, 256}))
		})

		It("parses bootstrap modes", func() {
			b, err := codegen.ParseBootstrap("ALWAYS")
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(codegen.BootstrapAlways))
			Expect(b.String()).To(Equal("always"))
			_, err = codegen.ParseBootstrap("sometimes")
			Expect(err).To(MatchError(ContainSubstring("sometimes")))
		})
	})

	It("logs function definitions at trace level", func() {
		var buf bytes.Buffer
		l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: hvi.LevelTrace}))
		g := codegen.New(codegen.Logger(l))
		g.SetFile("dir/Foo.vm")
		translate(g, nil, "function Foo.bar 3")
		Expect(buf.String()).To(ContainSubstring("name=Foo.bar locals=3"))
		Expect(buf.String()).To(ContainSubstring("msg=unit name=Foo"))
		Expect(g.File()).To(Equal("Foo"))
		Expect(g.Function()).To(Equal("Foo.bar"))
	})
})

const sysVM = `
function Sys.init 0
	push constant 5
	call Main.sum 1
	pop static 0
	push constant 3
	call Main.fact 1
	pop static 1
label HALT
	goto HALT
`

const mainVM = `
// sum of 1..n, recursive
function Main.sum 0
	push argument 0
	push constant 0
	eq
	if-goto BASE
	push argument 0
	push argument 0
	push constant 1
	sub
	call Main.sum 1
	add
	return
label BASE
	push constant 0
	return

// n!, iterative, result kept in static 0
function Main.fact 1
	push constant 1
	pop static 0
	push argument 0
	pop local 0
label LOOP
	push local 0
	push constant 1
	gt
	not
	if-goto DONE
	push static 0
	push local 0
	call Main.mul 2
	pop static 0
	push local 0
	push constant 1
	sub
	pop local 0
	goto LOOP
label DONE
	push static 0
	return

function Main.mul 2
	push constant 0
	pop local 0
	push argument 1
	pop local 1
label LOOP
	push local 1
	push constant 0
	eq
	if-goto DONE
	push local 0
	push argument 0
	add
	pop local 0
	push local 1
	push constant 1
	sub
	pop local 1
	goto LOOP
label DONE
	push local 0
	return
`
