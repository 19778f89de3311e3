package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

// runDumper prints a human readable dump of a recorded run.
type runDumper struct {
	rec traceRecord
	out io.Writer

	addrWidth int
	pcWidth   int

	noSteps bool
}

func (dump runDumper) dump() {
	fmt.Fprintf(dump.out, "# DUP Dump\n")
	fmt.Fprintf(dump.out, "  prog: %s\n", caretQuote(dump.rec.Program))
	if dump.rec.Exceeded {
		fmt.Fprintf(dump.out, "  cycles: %v exceeded\n", dump.rec.Cycles)
	} else {
		fmt.Fprintf(dump.out, "  cycles: %v\n", dump.rec.Cycles)
	}
	if dump.rec.Fault != "" {
		fmt.Fprintf(dump.out, "  fault: %v\n", dump.rec.Fault)
	}
	fmt.Fprintf(dump.out, "  output: %s\n", caretQuote(dump.rec.Output))
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.rec.Stack)

	dump.dumpMem()
	if !dump.noSteps {
		dump.dumpSteps()
	}
}

func (dump *runDumper) dumpMem() {
	if len(dump.rec.Memory) == 0 {
		return
	}
	if dump.addrWidth == 0 {
		last := dump.rec.Memory[len(dump.rec.Memory)-1].Addr
		dump.addrWidth = len(strconv.FormatUint(uint64(last), 10))
	}

	var buf strings.Builder
	fmt.Fprintf(dump.out, "# Memory size:%v\n", dump.rec.MemSize)
	for _, cell := range dump.rec.Memory {
		fmt.Fprintf(&buf, "  @%*v %v", dump.addrWidth, cell.Addr, cell.Value)
		if r := rune(cell.Value); cell.Value > 0 && cell.Value <= unicode.MaxRune && unicode.IsPrint(r) {
			buf.WriteString(" '")
			buf.WriteRune(r)
			buf.WriteByte('\'')
		} else if 0 <= cell.Value && cell.Value <= 0x9f {
			if form := caretForm(r); form != "" {
				buf.WriteByte(' ')
				buf.WriteString(form)
			}
		}
		buf.WriteByte('\n')
		io.WriteString(dump.out, buf.String())
		buf.Reset()
	}
}

func (dump *runDumper) dumpSteps() {
	if len(dump.rec.Steps) == 0 {
		return
	}
	if dump.pcWidth == 0 {
		dump.pcWidth = len(strconv.Itoa(len([]rune(dump.rec.Program))))
	}

	var buf strings.Builder
	fmt.Fprintf(dump.out, "# Trace\n")
	for _, st := range dump.rec.Steps {
		fmt.Fprintf(&buf, "  @%*v ", dump.pcWidth, st.PC)
		if st.Push {
			buf.WriteString("push ")
		} else {
			buf.WriteString("exec ")
		}
		dump.formatContext(&buf, st.Before, st.Op, st.After)
		buf.WriteString(" -- ")
		buf.WriteString(fmt.Sprint(st.Stack))
		buf.WriteByte('\n')
		io.WriteString(dump.out, buf.String())
		buf.Reset()
	}
}

// formatContext writes a step's surrounding program text, with the operator
// itself marked off by angle brackets.
func (dump *runDumper) formatContext(buf fmtBuf, before, op, after string) {
	writeCaret(buf, before)
	buf.WriteByte('<')
	writeCaret(buf, op)
	buf.WriteByte('>')
	writeCaret(buf, after)
}

func caretQuote(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	writeCaret(&buf, s)
	buf.WriteByte('"')
	return buf.String()
}

// writeCaret writes s with any control runes in their ^-escaped form.
func writeCaret(buf fmtBuf, s string) {
	for _, r := range s {
		if form := caretForm(r); form != "" {
			buf.WriteString(form)
		} else {
			buf.WriteRune(r)
		}
	}
}

// caretForm computes the ^-escaped printable form of a control rune.
func caretForm(r rune) string {
	if 0 <= r && r < 0x20 || r == 0x7f {
		return "^" + string(r^0x40)
	} else if 0x80 <= r && r <= 0x9f {
		return "^[" + string(r^0xc0)
	}
	return ""
}
