package dup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/godup/internal/mem"
)

func Test_commands(t *testing.T) {
	t.Run("stack", dupTestCases{
		dupTest("dup", "1$").expectStack(1, 1),
		dupTest("drop", "1 2%").expectStack(1),
		dupTest("swap", "1 2\\").expectStack(2, 1),
		dupTest("over", "1 2^").expectStack(1, 2, 1),
		dupTest("rot", "1 2 3@").expectStack(2, 3, 1),
		dupTest("pick 0", "10 20 30 0ø").expectStack(10, 20, 30, 30),
		dupTest("pick 2", "10 20 30 2ø").expectStack(10, 20, 30, 10),
		dupTest("to R", "1 2(").expectStack(1).expectRStack(2),
		dupTest("from R", "1 2()").expectStack(1, 2).expectRStack(),
	}.run)

	t.Run("arithmetic", dupTestCases{
		dupTest("add", "2 3+").expectStack(5),
		dupTest("sub", "5 3-").expectStack(2),
		dupTest("sub negative", "3 5-").expectStack(-2),
		dupTest("mul", "6 7*").expectStack(42),
		dupTest("negate", "4_").expectStack(-4),
		dupTest("divmod", "17 5/").expectStack(2, 3),
		dupTest("divmod negative numerator", "17_ 5/").expectStack(-2, -3),
		dupTest("divmod negative denominator", "17 5_/").expectStack(2, -3),
		dupTest("divmod exact", "8 4/").expectStack(0, 2),
	}.run)

	t.Run("bitwise", dupTestCases{
		dupTest("and", "12 10&").expectStack(8),
		dupTest("xor", "12 10|").expectStack(6),
		dupTest("not", "0~").expectStack(-1),
		dupTest("shl", "1 4«").expectStack(16),
		dupTest("shr", "16 2»").expectStack(4),
		dupTest("shr logical", "1_ 60»").expectStack(15),
		dupTest("shl out", "1 64«").expectStack(0),
	}.run)

	t.Run("comparison", dupTestCases{
		dupTest("less true", "1 2<").expectStack(-1),
		dupTest("less false", "2 1<").expectStack(0),
		dupTest("less equal", "2 2<").expectStack(0),
		dupTest("greater true", "2 1>").expectStack(-1),
		dupTest("greater false", "1 2>").expectStack(0),
		dupTest("equal true", "3 3=").expectStack(-1),
		dupTest("equal false", "3 4=").expectStack(0),
	}.run)

	t.Run("memory", dupTestCases{
		dupTest("store fetch", "42 7:7;").expectStack(42).expectMemAt(7, 42),
		dupTest("fetch unset", "99;").expectStack(0),
		dupTest("string", `0"hi"`).expectStack(2).expectMemAt(0, 'h', 'i', 0),
		dupTest("string at", `10"ø!"`).expectStack(12).expectMemAt(10, 'ø', '!'),
		dupTest("empty string", `5""`).expectStack(5).expectNoMem(),
		dupTest("unterminated string", `3"ab`).expectStack(5).expectMemAt(3, 'a', 'b'),
		dupTest("string skips operators", `0"1+"`).expectStack(2).expectOps("0", `"`),
	}.run)

	t.Run("io", dupTestCases{
		dupTest("char", "'A").expectStack(65),
		dupTest("char skips", "'1'[").expectStack('1', '['),
		dupTest("emit", "72,105,").expectOutput("Hi"),
		dupTest("emit unicode", "8658,").expectOutput("⇒"),
		dupTest("print", "42_.").expectOutput("-42"),
		dupTest("key", "```").withInput("hi").expectStack('h', 'i', -1),
		dupTest("key no input", "`").expectStack(-1),
		dupTest("flush", "65,ß").expectOutput("A"),
		dupTest("comment", "1{ 2 + }3").expectStack(1, 3).expectOps("1", "3"),
		dupTest("unterminated comment", "1{ 2").expectStack(1),
	}.run)

	t.Run("control", dupTestCases{
		dupTest("lambda address", "1[]").expectStack(1, 1),
		dupTest("exec", "2[1+]!").expectStack(3).expectRStack(),
		dupTest("if true", "1_[65,][66,]?").expectOutput("A").expectStack(),
		dupTest("if false", "0[65,][66,]?").expectOutput("B").expectStack(),
		dupTest("if any non-zero", "7[65,][66,]?").expectOutput("A"),
		dupTest("while never", "[0][65,]#").expectOutput("").expectStack().expectRStack(),
		dupTest("count down", "3[$][$.1-]#%").expectOutput("321").expectStack(),
		dupTest("nested while", "2[$][3[$][1-]#%1-]#%").expectStack().expectRStack(),
		dupTest("define", "[2*]⇒d 3d").expectStack(6),
		dupTest("define in lambda", "[[1+]⇒i]! 5i").expectStack(6),
		dupTest("undefined before define", "5d[2*]⇒d 3d").expectStack(5, 'd', 6),
		dupTest("unmatched lambda", "1[2").expectStack(1, 1),
		dupTest("return stack as data", "[)%7(]!").expectStack().expectRStack(),
	}.run)
}

func Test_faults(t *testing.T) {
	for _, tc := range []struct {
		name    string
		program string
		opts    []Option
		pc      int
		op      rune
		err     error
		output  string
	}{
		{name: "underflow", program: "+", pc: 0, op: '+', err: ErrStackUnderflow},
		{name: "underflow after output", program: "65, 1+", pc: 5, op: '+', err: ErrStackUnderflow, output: "A"},
		{name: "pick too deep", program: "1 5ø", pc: 3, op: 'ø', err: ErrStackUnderflow},
		{name: "pick negative", program: "1 1_ø", pc: 4, op: 'ø', err: ErrStackUnderflow},
		{name: "return underflow", program: "]", pc: 0, op: ']', err: ErrReturnUnderflow},
		{name: "from R underflow", program: ")", pc: 0, op: ')', err: ErrReturnUnderflow},
		{name: "divide by zero", program: "1 0/", pc: 3, op: '/', err: ErrDivideByZero},
		{name: "negative shift", program: "1 1_«", pc: 4, op: '«', err: ErrNegativeShift},
		{name: "negative fetch", program: "1_;", pc: 2, op: ';', err: ErrBadAddress},
		{name: "negative store", program: "1 1_:", pc: 4, op: ':', err: ErrBadAddress},
		{name: "negative string", program: `1_"a"`, pc: 2, op: '"', err: ErrBadAddress},
		{name: "bad jump", program: "5_!", pc: 2, op: '!', err: ErrBadAddress},
		{name: "truncated char", program: "'", pc: 0, op: '\'', err: ErrTruncated},
		{name: "truncated define", program: "[]⇒", pc: 2, op: '⇒', err: ErrTruncated},
		{
			name: "memory limit", program: "1 11:",
			opts: []Option{WithMemLimit(10)},
			pc:   4, op: ':', err: mem.LimitError{Addr: 11, Op: "stor"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := New(append([]Option{WithProgram(tc.program)}, tc.opts...)...)
			err := in.Run(context.Background())

			var fault *Fault
			require.True(t, errors.As(err, &fault), "expected fault, got %+v", err)
			assert.Equal(t, tc.pc, fault.PC, "expected fault PC")
			assert.Equal(t, string(tc.op), string(fault.Op), "expected fault op")
			assert.True(t, errors.Is(err, tc.err), "expected %v, got %v", tc.err, err)
			assert.Equal(t, tc.output, in.Output(), "expected output before fault")
			assert.False(t, IsPanic(err), "expected no panic")
		})
	}
}

func Test_output(t *testing.T) {
	ctx := context.Background()

	t.Run("replaced", func(t *testing.T) {
		var out strings.Builder
		in := New(WithProgram("72,105,"), WithOutput(&out))
		require.NoError(t, in.Run(ctx))
		assert.Equal(t, "Hi", out.String())
		assert.Equal(t, "", in.Output())
	})

	t.Run("tee", func(t *testing.T) {
		var out strings.Builder
		in := New(WithProgram("72,105,"), WithTee(&out))
		require.NoError(t, in.Run(ctx))
		assert.Equal(t, "Hi", out.String())
		assert.Equal(t, "Hi", in.Output())
	})

	t.Run("banner goes to writer", func(t *testing.T) {
		var out strings.Builder
		in := New(WithProgram("[$!]$!"), WithOutput(&out), WithMaxCycles(10))
		require.NoError(t, in.Run(ctx))
		assert.Equal(t, Banner, out.String())
	})

	t.Run("input reader", func(t *testing.T) {
		in := New(WithProgram("``"), WithInput(strings.NewReader("ab")))
		require.NoError(t, in.Run(ctx))
		assert.Equal(t, []int{'a', 'b'}, in.Stack())
		require.NoError(t, in.Run(ctx))
		assert.Equal(t, []int{-1, -1}, in.Stack(), "expected reader not to be rewound")
	})

	t.Run("input string rewinds", func(t *testing.T) {
		in := New(WithProgram("`"), WithInputString("q"))
		for i := 0; i < 2; i++ {
			require.NoError(t, in.Run(ctx))
			assert.Equal(t, []int{'q'}, in.Stack(), "expected rewound input on run %v", i)
		}
	})

	t.Run("write error", func(t *testing.T) {
		in := New(WithProgram("65,"), WithOutput(failWriter{}))
		err := in.Run(ctx)
		assert.True(t, errors.Is(err, errWriteFailed), "expected write error, got %+v", err)
	})
}

var errWriteFailed = errors.New("write failed")

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errWriteFailed }
func (failWriter) Flush() error                { return nil }

func Test_logf(t *testing.T) {
	var lines []string
	in := New(WithProgram("1 2+"), WithLogf(func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}))
	require.NoError(t, in.Run(context.Background()))
	assert.Equal(t, []string{
		`run "1 2+" s:[]`,
		`exec @3 '+' -- r:[] s:[1 2]`,
	}, lines)
}
