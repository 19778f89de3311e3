package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/godup/internal/dup"
)

type commandTestCase struct {
	name  string
	args  []string
	stdin string

	code   int
	stdout string
	stderr []string
	check  func(t *testing.T, stdout, stderr string)
}

func (tc commandTestCase) run(t *testing.T) (stdout, stderr string) {
	var out, errOut strings.Builder
	cmd := command{
		stdin:  strings.NewReader(tc.stdin),
		stdout: &out,
		stderr: &errOut,
	}
	code := cmd.main(context.Background(), tc.args)
	stdout, stderr = out.String(), errOut.String()
	assert.Equal(t, tc.code, code, "expected exit code\nstderr: %s", stderr)
	return stdout, stderr
}

func Test_command(t *testing.T) {
	dir := t.TempDir()
	progFile := writeTestFile(t, "prog.dup", "{ shout the input }\n[`$1_=~][,]#%\n")
	inputFile := writeTestFile(t, "input.txt", "hey")
	moreInputFile := writeTestFile(t, "more.txt", " you")
	traceFile := filepath.Join(dir, "run.trace")

	for _, tc := range []commandTestCase{
		{
			name:   "inline",
			args:   []string{"-e", "1 2+."},
			stdout: "3",
		},
		{
			name:   "initial stack",
			args:   []string{"-stack", "5,3", "-e", "-."},
			stdout: "2",
		},
		{
			name:   "program from stdin",
			stdin:  "6 7*.",
			stdout: "42",
		},
		{
			name:   "input from stdin",
			args:   []string{"-e", "`,`,"},
			stdin:  "hi",
			stdout: "hi",
		},
		{
			name:   "program file with input file",
			args:   []string{"-input", inputFile, progFile},
			stdout: "hey",
		},
		{
			name:   "several input files",
			args:   []string{"-input", inputFile, "-input", moreInputFile, progFile},
			stdin:  "ignored",
			stdout: "hey you",
		},
		{
			name:   "missing input file",
			args:   []string{"-input", filepath.Join(dir, "nope.txt"), "-e", "`."},
			code:   1,
			stderr: []string{"ERROR: "},
		},
		{
			name:   "timeout",
			args:   []string{"-timeout", "1ns", "-e", "1 2 3"},
			code:   1,
			stderr: []string{"ERROR: context deadline exceeded"},
		},
		{
			name:   "program file with stdin input",
			args:   []string{progFile},
			stdin:  "ok",
			stdout: "ok",
		},
		{
			name:   "fault",
			args:   []string{"-e", "1.%%"},
			code:   1,
			stdout: "1",
			stderr: []string{`ERROR: fault @2 '%': stack underflow`},
		},
		{
			name:   "runaway",
			args:   []string{"-max-cycles", "5", "-e", "[$!]$!"},
			stdout: dup.Banner,
			stderr: []string{"WARN: runtime exceeded after 6 cycles"},
		},
		{
			name:   "trace logging",
			args:   []string{"-trace", "-e", "1 2+"},
			stderr: []string{`TRACE: run "1 2+" s:[]`, `TRACE: exec @3 '+' -- r:[] s:[1 2]`},
		},
		{
			name:   "dump",
			args:   []string{"-dump", "-e", "1 2+."},
			stdout: "3",
			check: func(t *testing.T, stdout, stderr string) {
				assert.Equal(t, addPrintDump, stderr)
			},
		},
		{
			name:   "write trace",
			args:   []string{"-trace-out", traceFile, "-e", "1 2+."},
			stdout: "3",
		},
		{
			name:   "show trace",
			args:   []string{"-show-trace", traceFile},
			stdout: addPrintDump,
		},
		{
			name:   "both inline and files",
			args:   []string{"-e", "1", progFile},
			code:   1,
			stderr: []string{"ERROR: cannot give both -e and program files"},
		},
		{
			name:   "missing file",
			args:   []string{filepath.Join(dir, "nope.dup")},
			code:   1,
			stderr: []string{"ERROR: "},
		},
		{
			name:   "bad flag",
			args:   []string{"-stack", "a"},
			code:   2,
			stderr: []string{`invalid stack value "a"`},
		},
	} {
		tc := tc
		if !t.Run(tc.name, func(t *testing.T) {
			stdout, stderr := tc.run(t)
			assert.Equal(t, tc.stdout, stdout, "expected stdout")
			for _, line := range tc.stderr {
				assert.Contains(t, stderr, line, "expected stderr line")
			}
			if tc.check != nil {
				tc.check(t, stdout, stderr)
			}
		}) {
			return
		}
	}
}

func Test_logRunError(t *testing.T) {
	in := dup.New(dup.WithProgram("1x"))
	in.Define('x', func(in *dup.Interpreter) { panic("host command broke") })
	err := in.Run(context.Background())
	assert.True(t, dup.IsPanic(err))

	var errOut strings.Builder
	var cmd command
	cmd.log.SetOutput(&errOut)
	cmd.logRunError(err, false)
	assert.Equal(t, 0, cmd.log.ExitCode(), "expected non-fatal error to keep exit code")
	cmd.logRunError(err, true)
	assert.Equal(t, 1, cmd.log.ExitCode())

	out := errOut.String()
	assert.Contains(t, out, "ERROR: dup paniced: host command broke\n")
	assert.Contains(t, out, "goroutine ", "expected panic stack logged")
	assert.NotContains(t, out, "Panic stack:", "expected stack logged on its own")

	cmd.logRunError(nil, true)
	assert.Equal(t, out, errOut.String(), "expected nothing logged for no error")
}
