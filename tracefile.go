package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/jcorbin/godup/internal/dup"
	"github.com/jcorbin/godup/internal/mem"
)

// traceRecord is the saved form of one run, written by -trace-out and read by
// -show-trace.
type traceRecord struct {
	Program  string     `cbor:"program"`
	Output   string     `cbor:"output"`
	Stack    []int      `cbor:"stack"`
	Memory   []mem.Cell `cbor:"memory,omitempty"`
	MemSize  uint       `cbor:"memsize,omitempty"`
	Cycles   int        `cbor:"cycles"`
	Exceeded bool       `cbor:"exceeded,omitempty"`
	Fault    string     `cbor:"fault,omitempty"`
	Steps    []dup.Step `cbor:"steps"`
}

var traceEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dup: failed to create CBOR enc mode: %v", err))
	}
	traceEncMode = em
}

func recordRun(in *dup.Interpreter, output string, runErr error) traceRecord {
	rec := traceRecord{
		Program:  in.Program(),
		Output:   output,
		Stack:    in.Stack(),
		Memory:   in.Memory(),
		MemSize:  in.MemorySize(),
		Cycles:   in.Cycles(),
		Exceeded: in.Exceeded(),
		Steps:    in.Trace(),
	}
	if runErr != nil {
		rec.Fault = runErr.Error()
	}
	return rec
}

func marshalTrace(rec traceRecord) ([]byte, error) {
	return traceEncMode.Marshal(rec)
}

func unmarshalTrace(data []byte) (traceRecord, error) {
	var rec traceRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return traceRecord{}, fmt.Errorf("unmarshal trace: %w", err)
	}
	return rec, nil
}

func writeTraceFile(path string, rec traceRecord) (rerr error) {
	data, err := marshalTrace(rec)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); rerr == nil {
			rerr = cerr
		}
	}()
	_, err = f.Write(data)
	return err
}

func readTraceFile(path string) (traceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return traceRecord{}, err
	}
	return unmarshalTrace(data)
}
