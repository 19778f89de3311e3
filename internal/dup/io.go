package dup

import (
	"bufio"
	"io"
	"strconv"
	"unicode/utf8"
)

type writeFlusher interface {
	io.Writer
	Flush() error
}

func newWriteFlusher(w io.Writer) writeFlusher {
	if w == io.Discard {
		return nopFlusher{w}
	}

	if wf, is := w.(writeFlusher); is {
		return wf
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

type writeFlushers []writeFlusher

func (wfs writeFlushers) Write(p []byte) (n int, err error) {
	for _, wf := range wfs {
		n, err = wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (wfs writeFlushers) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func multiWriteFlusher(a, b writeFlusher) writeFlusher {
	var wfs writeFlushers
	for _, one := range []writeFlusher{a, b} {
		if many, ok := one.(writeFlushers); ok {
			wfs = append(wfs, many...)
		} else if one != nil {
			wfs = append(wfs, one)
		}
	}
	if len(wfs) == 1 {
		return wfs[0]
	}
	return wfs
}

func newRuneReader(r io.Reader) io.RuneReader {
	if rr, is := r.(io.RuneReader); is {
		return rr
	}
	return bufio.NewReader(r)
}

// write emits a single character to the output stream.
func (in *Interpreter) write(r rune) {
	var buf [utf8.UTFMax]byte
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	n := utf8.EncodeRune(buf[:], r)
	_, err := in.out.Write(buf[:n])
	in.haltif(err)
}

func (in *Interpreter) writeString(s string) {
	_, err := io.WriteString(in.out, s)
	in.haltif(err)
}

func (in *Interpreter) writeInt(n int) {
	in.writeString(strconv.Itoa(n))
}

// read returns the next input character's code point, or -1 at end of input.
// Any pending output is flushed first, so that prompts precede their reads.
func (in *Interpreter) read() int {
	in.haltif(in.out.Flush())
	if in.in == nil {
		return -1
	}
	r, _, err := in.in.ReadRune()
	if err == io.EOF {
		return -1
	}
	in.haltif(err)
	return int(r)
}
