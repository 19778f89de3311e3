package dup

import (
	"io"
	"strings"
)

// Option configures an Interpreter at construction.
type Option interface{ apply(in *Interpreter) }

var defaults = []Option{
	withMaxCycles(MaxCycles),
	withTraceContext(DefaultTraceContext),
	withTracing(true),
}

func (in *Interpreter) apply(opts ...Option) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(in)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

// WithProgram sets the program text run by Run.
func WithProgram(program string) Option { return programOption(program) }

// WithInput supplies the stream read by the ` operator; it is not rewound
// between runs.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithInputString supplies an input string that is rewound on every Reset.
func WithInputString(s string) Option { return inputStringOption(s) }

// WithOutput replaces the default output buffer with w, leaving Output
// empty; WithOutput(nil) restores the buffer.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithTee copies all output to w in addition to the current output.
func WithTee(w io.Writer) Option { return teeOption{w} }

// WithMaxCycles sets the runaway ceiling; values <= 0 select MaxCycles.
func WithMaxCycles(n int) Option { return withMaxCycles(n) }

// WithMemLimit sets the highest addressable memory cell; 0 means unlimited.
func WithMemLimit(limit uint) Option { return memLimitOption(limit) }

// WithTraceContext sets how many program characters each trace step keeps
// on either side of its PC.
func WithTraceContext(n int) Option { return withTraceContext(n) }

// WithoutTrace disables trace recording.
func WithoutTrace() Option { return withTracing(false) }

// WithLogf enables per-step debug logging.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(in *Interpreter) {
	in.logfn = logfn
}

type programOption string
type inputOption struct{ io.Reader }
type inputStringOption string
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type memLimitOption uint
type withMaxCycles int
type withTraceContext int
type withTracing bool

func (p programOption) apply(in *Interpreter) {
	in.SetProgram(string(p))
}

func (i inputOption) apply(in *Interpreter) {
	in.inString = nil
	in.in = nil
	if i.Reader != nil {
		in.in = newRuneReader(i.Reader)
	}
}

func (s inputStringOption) apply(in *Interpreter) {
	in.inString = strings.NewReader(string(s))
	in.in = in.inString
}

func (o outputOption) apply(in *Interpreter) {
	if in.out != nil {
		in.out.Flush()
	}
	if o.Writer == nil {
		in.out = nopFlusher{&in.buf}
	} else {
		in.out = newWriteFlusher(o.Writer)
	}
}

func (o teeOption) apply(in *Interpreter) {
	if o.Writer != nil {
		in.out = multiWriteFlusher(in.out, newWriteFlusher(o.Writer))
	}
}

func (lim memLimitOption) apply(in *Interpreter) {
	in.mem.Limit = uint(lim)
}

func (n withMaxCycles) apply(in *Interpreter) {
	if n <= 0 {
		n = MaxCycles
	}
	in.maxCycles = int(n)
}

func (n withTraceContext) apply(in *Interpreter) {
	if n < 0 {
		n = 0
	}
	in.traceContext = int(n)
}

func (b withTracing) apply(in *Interpreter) {
	in.tracing = bool(b)
}
