package bind

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"metabind/internal/codec"
	"metabind/internal/diagnostic"
	"metabind/internal/model"
	"metabind/internal/stream"
)

// BindRecord binds rec to m with the default binder.
func BindRecord(m *model.ComponentModel, rec stream.Record) (*BoundData, error) {
	return defaultBinder.BindRecord(m, rec)
}

// BindRecord decodes each record entry through the codec of the component
// its path resolves to. Entries repeated at a path inside an array get
// ordinals in arrival order.
func (b *Binder) BindRecord(m *model.ComponentModel, rec stream.Record) (*BoundData, error) {
	if m == nil {
		return nil, errors.New("bind: nil model")
	}

	s := b.newState(m)
	seen := make(map[string]int)

	for _, e := range rec.Entries {
		res, ok := model.Resolve(m, e.Path)
		if !ok || res.Model.Ref() != nil {
			s.unmapped(e.Path, e.Key, rawSparse(e.Path, e.Key, e.Data))
			continue
		}

		c := res.Model
		top, _, _ := strings.Cut(res.Path, ".")
		if mem, ok := m.Member(top); ok && mem.Has(model.RoleTransient) {
			continue
		}

		if err := resolvable(c); err != nil {
			s.failed(diagnostic.CodeUnresolvedCodec, res.Path, err)
			s.bd.sparse = append(s.bd.sparse, rawSparse(res.Path, e.Key, e.Data))
			continue
		}

		v, err := c.Codec().DecodeBinary(c, codec.WindowOf(e.Data))
		if err != nil {
			s.failed(diagnostic.CodeDecodeFailed, res.Path, err)
			s.bd.sparse = append(s.bd.sparse, rawSparse(res.Path, e.Key, e.Data))
			continue
		}

		pos := position{key: e.Key, ordinal: NoOrdinal}
		if res.Repeated {
			pos.ordinal = seen[res.Path]
			seen[res.Path]++
		}

		s.bound(c, res.Path, v, pos)
	}

	return s.finish()
}

// BindStream reads one framed record from r and binds it. r is left open.
func (b *Binder) BindStream(m *model.ComponentModel, r io.Reader) (*BoundData, error) {
	var rec stream.Record

	err := stream.WithReader(r, func(br stream.ByteReader) error {
		var err error
		rec, err = stream.Decode(br)
		return err
	})
	if err != nil {
		name := ""
		if m != nil {
			name = m.Name()
		}
		return nil, bindErr(name, "", err, "unreadable stream")
	}

	return b.BindRecord(m, rec)
}

// Encode writes bound values back to a record through their codecs, paths
// in first-bound order, followed by sparse data. Every encoding failure is
// reported.
func Encode(bd *BoundData) (stream.Record, error) {
	var (
		rec  stream.Record
		errs []error
		buf  bytes.Buffer
	)

	for _, path := range bd.paths {
		for _, c := range bd.components[path] {
			buf.Reset()

			if err := c.Model.Codec().EncodeBinary(c.Model, c.Value, &buf); err != nil {
				errs = append(errs, err)
				continue
			}

			rec.Add(path, c.Key, bytes.Clone(buf.Bytes()))
		}
	}

	for _, sf := range bd.sparse {
		rec.Add(sf.Path, sf.Key, sf.raw)
	}

	return rec, errors.Join(errs...)
}
