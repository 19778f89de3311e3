package dup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_trace(t *testing.T) {
	for _, tc := range []struct {
		name    string
		program string
		opts    []Option
		steps   []Step
	}{
		{
			name:    "add print",
			program: "1 1 + .",
			steps: []Step{
				{Op: "1", PC: 0, Push: true, Stack: []int{1}, Before: "", After: " 1 +"},
				{Op: "1", PC: 2, Push: true, Stack: []int{1, 1}, Before: "1 ", After: " + ."},
				{Op: "+", PC: 4, Stack: []int{2}, Before: "1 1 ", After: " ."},
				{Op: ".", PC: 6, Stack: []int{}, Before: "1 + ", After: ""},
			},
		},
		{
			name:    "literal attributed to last digit",
			program: "123",
			steps: []Step{
				{Op: "3", PC: 2, Push: true, Stack: []int{123}, Before: "12", After: ""},
			},
		},
		{
			name:    "structural characters are silent",
			program: "{c}[2]!",
			steps: []Step{
				{Op: "!", PC: 6, Stack: []int{}, Before: "}[2]", After: ""},
				{Op: "2", PC: 4, Push: true, Stack: []int{2}, Before: "{c}[", After: "]!"},
			},
		},
		{
			name:    "unknown character",
			program: "xy",
			opts:    []Option{WithTraceContext(1)},
			steps: []Step{
				{Op: "x", PC: 0, Push: true, Stack: []int{'x'}, Before: "", After: "y"},
				{Op: "y", PC: 1, Push: true, Stack: []int{'x', 'y'}, Before: "x", After: ""},
			},
		},
		{
			name:    "unicode context",
			program: "'⇒ 1+",
			opts:    []Option{WithTraceContext(2)},
			steps: []Step{
				{Op: "'", PC: 0, Stack: []int{'⇒'}, Before: "", After: "⇒ "},
				{Op: "1", PC: 3, Push: true, Stack: []int{'⇒', 1}, Before: "⇒ ", After: "+"},
				{Op: "+", PC: 4, Stack: []int{'⇒' + 1}, Before: " 1", After: ""},
			},
		},
		{
			name:    "disabled",
			program: "1 1 + .",
			opts:    []Option{WithoutTrace()},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := New(append([]Option{WithProgram(tc.program)}, tc.opts...)...)
			require.NoError(t, in.Run(context.Background()))
			assert.Equal(t, tc.steps, in.Trace())
		})
	}
}

func Test_traceSnapshots(t *testing.T) {
	in := New(WithProgram("1 2 3 %%%"))
	require.NoError(t, in.Run(context.Background()))
	trace := in.Trace()
	require.Len(t, trace, 6)
	assert.Equal(t, []int{1, 2, 3}, trace[2].Stack, "expected snapshot unaffected by later drops")
	assert.Equal(t, []int{}, trace[5].Stack)

	trace[2].Stack[0] = 99
	trace[0].Op = "x"
	again := in.Trace()
	assert.Equal(t, []int{1, 2, 3}, again[2].Stack, "expected recorded snapshot unchanged by caller")
	assert.Equal(t, "1", again[0].Op)
}

func Test_traceSurvivesFault(t *testing.T) {
	in := New(WithProgram("1 2+ +"))
	require.Error(t, in.Run(context.Background()))
	var ops []string
	for _, st := range in.Trace() {
		ops = append(ops, st.Op)
	}
	assert.Equal(t, []string{"1", "2", "+"}, ops, "expected partial trace")
}
