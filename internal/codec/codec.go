package codec

import (
	"errors"
	"fmt"
	"io"
)

// Field is the configuration view of the component a value belongs to.
type Field interface {
	Name() string
	// Param returns a marker value declared on the component.
	Param(key string) (string, bool)
}

// Codec converts values of one storage kind.
type Codec interface {
	Name() string
	EncodeBinary(f Field, v any, w io.Writer) error
	DecodeBinary(f Field, win Window) (any, error)
	EncodeText(f Field, v any) (string, error)
	DecodeText(f Field, s string) (any, error)
}

// Factory constructs a codec.
type Factory func() Codec

// Window is a bounded view into a shared buffer. Decoding from a window never
// moves any cursor of the buffer's owner.
type Window struct {
	buf []byte
	off int
	n   int
}

// ErrWindow is returned for windows outside their buffer.
var ErrWindow = errors.New("codec: window out of bounds")

// NewWindow returns the window [off, off+n) of buf.
func NewWindow(buf []byte, off, n int) (Window, error) {
	if off < 0 || n < 0 || off+n > len(buf) {
		return Window{}, fmt.Errorf("%w: [%d:%d] of %d", ErrWindow, off, off+n, len(buf))
	}

	return Window{buf: buf, off: off, n: n}, nil
}

// WindowOf returns a window spanning all of b.
func WindowOf(b []byte) Window {
	return Window{buf: b, n: len(b)}
}

// Len returns the window length.
func (w Window) Len() int { return w.n }

// Offset returns the window start within its buffer.
func (w Window) Offset() int { return w.off }

// Bytes returns the windowed bytes. The slice is capacity-limited so appends
// never overwrite data past the window.
func (w Window) Bytes() []byte {
	return w.buf[w.off : w.off+w.n : w.off+w.n]
}

// Sub returns the window [off, off+n) relative to w.
func (w Window) Sub(off, n int) (Window, error) {
	if off < 0 || n < 0 || off+n > w.n {
		return Window{}, fmt.Errorf("%w: [%d:%d] of window %d", ErrWindow, off, off+n, w.n)
	}

	return Window{buf: w.buf, off: w.off + off, n: n}, nil
}

// Param returns a field parameter, tolerating a nil field.
func Param(f Field, key string) (string, bool) {
	if f == nil {
		return "", false
	}

	return f.Param(key)
}

func fieldName(f Field) string {
	if f == nil {
		return ""
	}

	return f.Name()
}
