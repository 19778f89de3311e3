package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcorbin/godup/internal/dup"
	"github.com/jcorbin/godup/internal/logio"
)

func main() {
	cmd := command{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(cmd.main(context.Background(), os.Args[1:]))
}

type command struct {
	config

	configPath string
	eval       string
	traceOut   string
	showTrace  string
	dump       bool
	repl       bool
	args       []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	log logio.Logger
}

func (cmd *command) main(ctx context.Context, args []string) int {
	cmd.log.SetOutput(cmd.stderr)
	if err := cmd.parse(args); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		cmd.log.Errorf("%v", err)
		return 2
	}

	switch {
	case cmd.showTrace != "":
		cmd.log.ErrorIf(cmd.printTrace())
	case cmd.repl:
		cmd.log.ErrorIf(cmd.runREPL(ctx))
	default:
		cmd.logRunError(cmd.run(ctx), true)
	}
	return cmd.log.ExitCode()
}

// logRunError logs any error from a run, followed by the stack of a
// recovered panic. Only fatal errors make the command exit non-zero.
func (cmd *command) logRunError(err error, fatal bool) {
	if err == nil {
		return
	}
	if fatal {
		cmd.log.Errorf("%v", err)
	} else {
		cmd.log.Printf("ERROR", "%v", err)
	}
	if dup.IsPanic(err) {
		cmd.log.Printf("", "%s", dup.PanicStack(err))
	}
}

// withTimeout bounds a single run by any configured timeout.
func (cmd *command) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if cmd.Timeout.Duration != 0 {
		return context.WithTimeout(ctx, cmd.Timeout.Duration)
	}
	return context.WithCancel(ctx)
}

// openInput opens the -input files as one stream, read in the order given.
func (cmd *command) openInput() (_ io.Reader, closeAll func(), _ error) {
	var files []*os.File
	closeAll = func() {
		for _, f := range files {
			f.Close()
		}
	}
	readers := make([]io.Reader, 0, len(cmd.Input))
	for _, name := range cmd.Input {
		f, err := os.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return io.MultiReader(readers...), closeAll, nil
}

func (cmd *command) parse(args []string) error {
	flags := flag.NewFlagSet("dup", flag.ContinueOnError)
	flags.SetOutput(cmd.stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: dup [flags] [file ...]\n\n")
		flags.PrintDefaults()
	}

	flagged := defaultConfig()
	flagged.bindFlags(flags)
	flags.StringVar(&cmd.configPath, "config", "", "TOML config file, defaults to "+defaultConfigFile+" if present")
	flags.StringVar(&cmd.eval, "e", "", "program text to run instead of files")
	flags.StringVar(&cmd.traceOut, "trace-out", "", "write a CBOR trace record of the run to this file")
	flags.StringVar(&cmd.showTrace, "show-trace", "", "print a trace record written by -trace-out")
	flags.BoolVar(&cmd.dump, "dump", false, "dump interpreter state after the run")
	flags.BoolVar(&cmd.repl, "repl", false, "run an interactive read-eval-print loop")
	if err := flags.Parse(args); err != nil {
		return err
	}
	cmd.args = flags.Args()

	cmd.config = defaultConfig()
	if cmd.configPath != "" {
		if err := loadConfig(&cmd.config, cmd.configPath, true); err != nil {
			return err
		}
	} else if err := loadConfig(&cmd.config, defaultConfigFile, false); err != nil {
		return err
	}
	cmd.config.overlay(flags, &flagged)
	return nil
}

func (cmd *command) options() []dup.Option {
	opts := cmd.config.options()
	if cmd.Trace {
		opts = append(opts, dup.WithLogf(cmd.log.Leveledf("TRACE")))
	}
	if cmd.traceOut == "" && !cmd.dump {
		opts = append(opts, dup.WithoutTrace())
	}
	return opts
}

func (cmd *command) run(ctx context.Context) error {
	program, fromStdin, err := cmd.program()
	if err != nil {
		return err
	}

	var output strings.Builder
	opts := append(cmd.options(),
		dup.WithOutput(cmd.stdout),
		dup.WithTee(&output),
	)

	switch {
	case len(cmd.Input) > 0:
		r, closeAll, err := cmd.openInput()
		if err != nil {
			return err
		}
		defer closeAll()
		opts = append(opts, dup.WithInput(r))
	case !fromStdin:
		opts = append(opts, dup.WithInput(cmd.stdin))
	}

	ctx, cancel := cmd.withTimeout(ctx)
	defer cancel()

	in := dup.New(opts...)
	runErr := in.Exec(ctx, program, cmd.Stack...)
	if in.Exceeded() {
		cmd.log.Printf("WARN", "runtime exceeded after %v cycles", in.Cycles())
	}

	if cmd.traceOut != "" || cmd.dump {
		rec := recordRun(in, output.String(), runErr)
		if cmd.traceOut != "" {
			cmd.log.ErrorIf(writeTraceFile(cmd.traceOut, rec))
		}
		if cmd.dump {
			runDumper{rec: rec, out: cmd.stderr}.dump()
		}
	}
	return runErr
}

// program returns the program text from -e, the named files, or stdin.
func (cmd *command) program() (_ string, fromStdin bool, _ error) {
	if cmd.eval != "" {
		if len(cmd.args) > 0 {
			return "", false, errors.New("cannot give both -e and program files")
		}
		return cmd.eval, false, nil
	}

	if len(cmd.args) == 0 {
		b, err := io.ReadAll(cmd.stdin)
		return string(b), true, err
	}

	var buf strings.Builder
	for _, name := range cmd.args {
		b, err := os.ReadFile(name)
		if err != nil {
			return "", false, err
		}
		buf.Write(b)
	}
	return buf.String(), false, nil
}

func (cmd *command) printTrace() error {
	rec, err := readTraceFile(cmd.showTrace)
	if err != nil {
		return err
	}
	runDumper{rec: rec, out: cmd.stdout}.dump()
	return nil
}
