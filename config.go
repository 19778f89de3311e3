package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/godup/internal/dup"
)

const defaultConfigFile = "dup.toml"

// config holds the run settings shared by the config file and flags.
type config struct {
	MaxCycles    int       `toml:"max-cycles"`
	MemLimit     uint      `toml:"mem-limit"`
	TraceContext int       `toml:"trace-context"`
	Timeout      duration  `toml:"timeout"`
	Trace        bool      `toml:"trace"`
	Stack        stackList `toml:"stack"`
	Input        fileList  `toml:"input"`
}

func defaultConfig() config {
	return config{
		MaxCycles:    dup.MaxCycles,
		TraceContext: dup.DefaultTraceContext,
	}
}

// loadConfig decodes a TOML config file over cfg. A missing file is only an
// error if it was asked for by name.
func loadConfig(cfg *config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	} else if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("unknown keys in %s: %v", path, undec)
	}
	return nil
}

// flagNames maps the flags that shadow config file keys to a function copying
// the flag's value into a config.
var flagNames = map[string]func(dst, src *config){
	"max-cycles":    func(dst, src *config) { dst.MaxCycles = src.MaxCycles },
	"mem-limit":     func(dst, src *config) { dst.MemLimit = src.MemLimit },
	"trace-context": func(dst, src *config) { dst.TraceContext = src.TraceContext },
	"timeout":       func(dst, src *config) { dst.Timeout = src.Timeout },
	"trace":         func(dst, src *config) { dst.Trace = src.Trace },
	"stack":         func(dst, src *config) { dst.Stack = src.Stack },
	"input":         func(dst, src *config) { dst.Input = src.Input },
}

func (cfg *config) bindFlags(flags *flag.FlagSet) {
	flags.IntVar(&cfg.MaxCycles, "max-cycles", cfg.MaxCycles, "runaway cycle ceiling")
	flags.UintVar(&cfg.MemLimit, "mem-limit", cfg.MemLimit, "highest addressable memory cell, 0 for none")
	flags.IntVar(&cfg.TraceContext, "trace-context", cfg.TraceContext, "program characters recorded around each trace step")
	flags.Var(&cfg.Timeout, "timeout", "specify a time limit")
	flags.BoolVar(&cfg.Trace, "trace", cfg.Trace, "enable trace logging")
	flags.Var(&cfg.Stack, "stack", "initial stack, comma separated, bottom first")
	flags.Var(&cfg.Input, "input", "file to read program input from; repeat to read several in order")
}

// overlay copies any values explicitly given as flags from src into cfg.
func (cfg *config) overlay(flags *flag.FlagSet, src *config) {
	flags.Visit(func(f *flag.Flag) {
		if set := flagNames[f.Name]; set != nil {
			set(cfg, src)
		}
	})
}

func (cfg config) options() []dup.Option {
	return []dup.Option{
		dup.WithMaxCycles(cfg.MaxCycles),
		dup.WithMemLimit(cfg.MemLimit),
		dup.WithTraceContext(cfg.TraceContext),
	}
}

// duration is a time.Duration that decodes from strings like "5s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *duration) Set(s string) error { return d.UnmarshalText([]byte(s)) }

// stackList is a list of initial stack values, given as a flag like "1,2,3".
type stackList []int

func (sl stackList) String() string {
	parts := make([]string, len(sl))
	for i, v := range sl {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (sl *stackList) Set(s string) error {
	*sl = (*sl)[:0]
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid stack value %q", part)
		}
		*sl = append(*sl, v)
	}
	return nil
}

// fileList collects the names given by a repeated flag.
type fileList []string

func (fl fileList) String() string { return strings.Join(fl, ",") }

func (fl *fileList) Set(name string) error {
	*fl = append(*fl, name)
	return nil
}
