package stream

import (
	"bufio"
	"errors"
	"io"
)

// ByteReader reads raw bytes from a source.
type ByteReader interface {
	io.Reader
	// ReadAll reads until EOF.
	ReadAll() ([]byte, error)
	io.Closer
}

// ByteWriter writes raw bytes to a sink.
type ByteWriter interface {
	io.Writer
	Flush() error
	io.Closer
}

type reader struct {
	*bufio.Reader
	src  io.Reader
	owns bool
}

// NewReader wraps r in a buffered ByteReader that owns r: Close closes r
// when it is an io.Closer.
func NewReader(r io.Reader) ByteReader {
	return &reader{Reader: bufio.NewReader(r), src: r, owns: true}
}

func (r *reader) ReadAll() ([]byte, error) {
	return io.ReadAll(r.Reader)
}

func (r *reader) Close() error {
	if !r.owns {
		return nil
	}

	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

type writer struct {
	*bufio.Writer
	dst    io.Writer
	owns   bool
	closed bool
}

// NewWriter wraps w in a buffered ByteWriter that owns w: Close flushes, then
// closes w when it is an io.Closer.
func NewWriter(w io.Writer) ByteWriter {
	return &writer{Writer: bufio.NewWriter(w), dst: w, owns: true}
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.Flush()
	if !w.owns {
		return err
	}

	if c, ok := w.dst.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}

	return err
}

// WithReader runs fn with a buffered reader over r and releases it
// afterwards, also when fn fails or panics. r stays open; closing it is the
// caller's business.
func WithReader(r io.Reader, fn func(ByteReader) error) (err error) {
	br := &reader{Reader: bufio.NewReader(r), src: r}
	defer func() {
		err = errors.Join(err, br.Close())
	}()

	return fn(br)
}

// WithWriter runs fn with a buffered writer over w, then flushes it, also
// when fn fails or panics. w stays open.
func WithWriter(w io.Writer, fn func(ByteWriter) error) (err error) {
	bw := &writer{Writer: bufio.NewWriter(w), dst: w}
	defer func() {
		err = errors.Join(err, bw.Close())
	}()

	return fn(bw)
}
