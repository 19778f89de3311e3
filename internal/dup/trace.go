package dup

import "strconv"

// DefaultTraceContext is the default number of program characters kept on
// either side of each traced step.
const DefaultTraceContext = 4

// Step records one traced execution event: an operator run, or a value
// pushed by a number literal or an unknown character.
type Step struct {
	// Op is the operator character; for pushes it is the last character of
	// the pushed value's decimal form, or the unknown character itself.
	Op   string `json:"op"`
	PC   int    `json:"pc"`
	Push bool   `json:"push,omitempty"`

	// Stack is a copy of the data stack just after the step.
	Stack []int `json:"stack"`

	// Before and After hold program text surrounding PC.
	Before string `json:"before"`
	After  string `json:"after"`
}

func (st Step) String() string {
	return strconv.Itoa(st.PC) + " " + strconv.Quote(st.Op) + " " + formatStack(st.Stack)
}

func formatStack(stack []int) string {
	b := []byte{'['}
	for i, v := range stack {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(append(b, ']'))
}

func (in *Interpreter) tracePush(val int, op rune, at int) {
	in.push(val)
	in.traceOperator(op, at, true)
}

func (in *Interpreter) traceOperator(op rune, at int, push bool) {
	if !in.tracing {
		return
	}
	switch op {
	case '[', ']', '{':
		return
	}

	n := in.traceContext
	lo := at - n
	if lo < 0 {
		lo = 0
	}
	hi := at + 1 + n
	if hi > len(in.program) {
		hi = len(in.program)
	}
	before := string(in.program[lo:at])
	after := ""
	if at+1 < hi {
		after = string(in.program[at+1 : hi])
	}

	in.trace = append(in.trace, Step{
		Op:     string(op),
		PC:     at,
		Push:   push,
		Stack:  append(make([]int, 0, len(in.stack)), in.stack...),
		Before: before,
		After:  after,
	})
}

// lastDigit returns the final character of n in decimal, which the trace
// records as the operator of a number literal push.
func lastDigit(n int) rune {
	s := strconv.Itoa(n)
	return rune(s[len(s)-1])
}
