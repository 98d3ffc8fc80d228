package stream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrame bounds a single framed field.
const MaxFrame = 64 << 20

// ErrFrameTooLarge is returned when a frame length exceeds MaxFrame.
var ErrFrameTooLarge = errors.New("stream: frame too large")

// Entry is one encoded component value. Key is set for map entries.
type Entry struct {
	Path string
	Key  string
	Data []byte
}

// Record is an ordered list of entries.
type Record struct {
	Entries []Entry
}

// Add appends an entry.
func (r *Record) Add(path, key string, data []byte) {
	r.Entries = append(r.Entries, Entry{Path: path, Key: key, Data: data})
}

// Paths returns the distinct entry paths in first-seen order.
func (r Record) Paths() []string {
	seen := make(map[string]struct{}, len(r.Entries))
	out := make([]string, 0, len(r.Entries))

	for _, e := range r.Entries {
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		out = append(out, e.Path)
	}

	return out
}

// Encode writes the record: an entry count, then path, key and data of each
// entry, every part prefixed by its uvarint length.
func (r Record) Encode(w io.Writer) error {
	var buf [binary.MaxVarintLen64]byte

	frame := func(b []byte) error {
		n := binary.PutUvarint(buf[:], uint64(len(b)))
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
		_, err := w.Write(b)
		return err
	}

	n := binary.PutUvarint(buf[:], uint64(len(r.Entries)))
	if _, err := w.Write(buf[:n]); err != nil {
		return fmt.Errorf("stream: write count: %w", err)
	}

	for i, e := range r.Entries {
		for _, part := range [][]byte{[]byte(e.Path), []byte(e.Key), e.Data} {
			if err := frame(part); err != nil {
				return fmt.Errorf("stream: write entry %d: %w", i, err)
			}
		}
	}

	return nil
}

// Decode reads a record written by Encode.
func Decode(r io.Reader) (Record, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		buffered := bufio.NewReader(r)
		br, r = buffered, buffered
	}

	count, err := binary.ReadUvarint(br)
	if err != nil {
		return Record{}, fmt.Errorf("stream: read count: %w", err)
	}

	if count > MaxFrame {
		return Record{}, fmt.Errorf("%w: %d entries", ErrFrameTooLarge, count)
	}

	rec := Record{Entries: make([]Entry, 0, count)}

	for i := range count {
		var parts [3][]byte

		for j := range parts {
			if parts[j], err = readFrame(r, br); err != nil {
				return Record{}, fmt.Errorf("stream: read entry %d: %w", i, err)
			}
		}

		rec.Add(string(parts[0]), string(parts[1]), parts[2])
	}

	return rec, nil
}

func readFrame(r io.Reader, br io.ByteReader) ([]byte, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, unexpected(err)
	}

	if n > MaxFrame {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, unexpected(err)
	}

	return b, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	rec, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	*r = rec

	return nil
}
