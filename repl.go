package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jcorbin/godup/internal/dup"
)

const replPrompt = "dup> "

type lineReader interface {
	Readline() (string, error)
}

func (cmd *command) runREPL(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	cmd.log.SetOutput(rl.Stderr())

	var opts []dup.Option
	if len(cmd.Input) > 0 {
		r, closeAll, err := cmd.openInput()
		if err != nil {
			return err
		}
		defer closeAll()
		opts = append(opts, dup.WithInput(r))
	}
	return cmd.replLoop(ctx, rl, rl.Stdout(), opts...)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dup_history")
}

// replLoop runs each line read as a program, starting from the stack the
// previous line left. A line that faults leaves the stack as it was. Any
// timeout applies to each line on its own.
func (cmd *command) replLoop(ctx context.Context, lines lineReader, out io.Writer, opts ...dup.Option) error {
	in := dup.New(append(cmd.options(), opts...)...)
	stack := append([]int(nil), cmd.Stack...)
	for {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineCtx, cancel := cmd.withTimeout(ctx)
		runErr := in.Exec(lineCtx, line, stack...)
		cancel()
		if output := in.Output(); output != "" {
			io.WriteString(out, output)
			if !strings.HasSuffix(output, "\n") {
				io.WriteString(out, "\n")
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if runErr != nil {
			cmd.logRunError(runErr, false)
		} else {
			stack = in.Stack()
		}
		if in.Exceeded() {
			cmd.log.Printf("WARN", "runtime exceeded after %v cycles", in.Cycles())
		}
		fmt.Fprintf(out, "s: %v\n", stack)
	}
}
