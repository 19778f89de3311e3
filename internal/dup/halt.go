package dup

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Errors wrapped by a Fault; test for them with errors.Is.
var (
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrReturnUnderflow = errors.New("return stack underflow")
	ErrDivideByZero    = errors.New("divide by zero")
	ErrNegativeShift   = errors.New("negative shift count")
	ErrBadAddress      = errors.New("invalid memory address")
	ErrTruncated       = errors.New("program ends before operand")
)

// Fault is a fatal interpreter error, raised by a malformed program. The
// interpreter keeps the state it had when the fault occurred.
type Fault struct {
	PC  int
	Op  rune
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault @%v %q: %v", f.PC, f.Op, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

func (in *Interpreter) halt(err error) {
	in.logf("halt error: %v", err)
	panic(haltError{err})
}

func (in *Interpreter) haltif(err error) {
	if err != nil {
		in.halt(err)
	}
}

func (in *Interpreter) fault(err error) {
	in.halt(&Fault{PC: in.at, Op: in.op, Err: err})
}

// isolate runs f, converting any halt into its error and any other panic
// into a panicError carrying the stack it happened on.
func isolate(name string, f func() error) (err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if he, ok := e.(haltError); ok {
			err = he.error
			return
		}
		err = panicError{name, e, debug.Stack()}
	}()
	return f()
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic returns true if err is an unexpected panic recovered from a run,
// rather than a Fault or an I/O error.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a recovered panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
