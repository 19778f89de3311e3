// Package dup implements an interpreter for DUP, a stack language descended
// from FALSE: a character-at-a-time dispatcher over a data stack, a return
// stack, and a sparse cell memory, with a per-run command table that programs
// may extend with the ⇒ operator, and a step trace for debuggers.
package dup

import (
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/godup/internal/mem"
)

// MaxCycles is the default runaway ceiling: the number of characters a run
// may dispatch before it is stopped.
const MaxCycles = 10000

// Banner is written to the output when a run exceeds its cycle ceiling.
const Banner = "*** Program Runtime Exceeded ***"

// Interpreter runs DUP programs. It holds a data stack, a return stack, a
// sparse cell memory, and its own copy of the command table, all of which
// are reinitialized by Reset. An Interpreter must not be shared between
// goroutines; separate instances share nothing mutable.
type Interpreter struct {
	logfn func(mess string, args ...interface{})

	program []rune
	pc      int

	// at and op identify the character being dispatched, for faults
	at int
	op rune

	// The data stack holds plain ints: literals, character codes, lambda
	// addresses and booleans (0 false, -1 true).
	stack []int

	// The return stack holds call return addresses interleaved with the
	// five cell frames of running # loops.
	rstack []int

	mem mem.Ints

	// matches caches, per opening PC, the PC of its closing bracket, quote,
	// or brace; -1 records that no close exists.
	matches map[int]int

	commands map[rune]Command
	defined  map[rune]Command

	in       io.RuneReader
	inString *strings.Reader
	buf      strings.Builder
	out      writeFlusher

	maxCycles int
	cycles    int
	exceeded  bool

	tracing      bool
	traceContext int
	trace        []Step
}

// New creates an Interpreter; its program may be given by WithProgram or
// later by SetProgram.
func New(opts ...Option) *Interpreter {
	var in Interpreter
	in.out = nopFlusher{&in.buf}
	in.apply(opts...)
	in.Reset()
	return &in
}

// Reset reinitializes all run state: stacks, memory, bracket matches, trace,
// output buffer, cycle count, and the command table, which is copied afresh
// from the builtins. Any input string is rewound. The program is kept.
func (in *Interpreter) Reset() {
	in.commands = Builtins()
	for r, cmd := range in.defined {
		in.commands[r] = cmd
	}
	in.matches = make(map[int]int)
	in.stack = in.stack[:0]
	in.rstack = in.rstack[:0]
	in.mem.Reset()
	in.trace = nil
	in.buf.Reset()
	in.cycles = 0
	in.exceeded = false
	in.at, in.op = 0, 0
	if in.inString != nil {
		in.inString.Seek(0, io.SeekStart)
	}
	in.pc = 0
}

// SetProgram sets the program text for subsequent runs.
func (in *Interpreter) SetProgram(program string) {
	in.program = []rune(program)
}

// Program returns the current program text.
func (in *Interpreter) Program() string { return string(in.program) }

// Exec sets the program, then runs it like Run.
func (in *Interpreter) Exec(ctx context.Context, program string, stack ...int) error {
	in.SetProgram(program)
	return in.Run(ctx, stack...)
}

// Run resets the interpreter, pushes any initial stack values bottom to top,
// then executes the program until it ends, the cycle ceiling is exceeded, ctx
// is done, or a fault halts it.
//
// Exceeding the cycle ceiling is not an error: the Banner is written to the
// output and Exceeded reports true. A malformed program results in a *Fault
// error; the state at the time of the fault remains available.
func (in *Interpreter) Run(ctx context.Context, stack ...int) (rerr error) {
	in.Reset()
	in.stack = append(in.stack, stack...)

	defer func() {
		if ferr := in.out.Flush(); rerr == nil {
			rerr = ferr
		}
	}()

	return isolate("dup", func() error {
		in.exec(ctx)
		return nil
	})
}

func (in *Interpreter) exec(ctx context.Context) {
	if in.logfn != nil {
		in.logf("run %q s:%v", string(in.program), in.stack)
	}

	var (
		number  int
		pending bool
	)
	for in.pc < len(in.program) {
		at := in.pc
		r := in.program[at]
		if '0' <= r && r <= '9' {
			number = number*10 + int(r-'0')
			pending = true
		} else {
			if pending {
				in.tracePush(number, lastDigit(number), at-1)
				number, pending = 0, false
			}
			if !unicode.IsSpace(r) {
				in.step(at, r)
			}
		}

		in.pc++
		if in.cycles++; in.cycles > in.maxCycles {
			in.logf("cycle ceiling %v exceeded @%v", in.maxCycles, at)
			in.exceeded = true
			in.writeString(Banner)
			return
		}
		in.haltif(ctx.Err())
	}
	if pending {
		in.tracePush(number, lastDigit(number), in.pc-1)
	}
}

func (in *Interpreter) step(at int, r rune) {
	in.at, in.op = at, r
	cmd, ok := in.commands[r]
	if in.logfn != nil {
		in.logf("exec @%v %q -- r:%v s:%v", at, r, in.rstack, in.stack)
	}
	if !ok {
		in.tracePush(int(r), r, at)
		return
	}
	cmd(in)
	in.traceOperator(r, at, false)
}

func (in *Interpreter) logf(mess string, args ...interface{}) {
	if in.logfn != nil {
		in.logfn(mess, args...)
	}
}

// Output returns everything written to the output buffer by the last run.
func (in *Interpreter) Output() string { return in.buf.String() }

// Stack returns a copy of the data stack, bottom first.
func (in *Interpreter) Stack() []int { return append([]int{}, in.stack...) }

// ReturnStack returns a copy of the return stack, bottom first.
func (in *Interpreter) ReturnStack() []int { return append([]int{}, in.rstack...) }

// Trace returns a copy of the steps recorded by the last run.
func (in *Interpreter) Trace() []Step {
	if in.trace == nil {
		return nil
	}
	trace := make([]Step, len(in.trace))
	for i, st := range in.trace {
		st.Stack = append([]int{}, st.Stack...)
		trace[i] = st
	}
	return trace
}

// Matches returns a copy of the bracket match cache.
func (in *Interpreter) Matches() map[int]int {
	matches := make(map[int]int, len(in.matches))
	for open, close := range in.matches {
		matches[open] = close
	}
	return matches
}

// Load returns the value of a memory cell.
func (in *Interpreter) Load(addr uint) int {
	val, _ := in.mem.Load(addr)
	return val
}

// Memory returns all non-zero memory cells in address order.
func (in *Interpreter) Memory() []mem.Cell { return in.mem.Cells() }

// MemorySize returns the extent of memory allocated by the last run: one
// past the highest address of its last page.
func (in *Interpreter) MemorySize() uint { return in.mem.Size() }

// PC returns the program counter where the last run stopped.
func (in *Interpreter) PC() int { return in.pc }

// Cycles returns the number of characters dispatched by the last run.
func (in *Interpreter) Cycles() int { return in.cycles }

// Exceeded reports whether the last run stopped at the cycle ceiling.
func (in *Interpreter) Exceeded() bool { return in.exceeded }

// Define binds a host command to a character. Unlike the ⇒ operator, whose
// bindings last only for the current run, it survives Reset.
func (in *Interpreter) Define(r rune, cmd Command) {
	if in.defined == nil {
		in.defined = make(map[rune]Command)
	}
	in.defined[r] = cmd
	in.commands[r] = cmd
}
