// Package stream provides the narrow byte reader/writer contract consumed by
// the codec pipeline and a length-framed record format carrying encoded
// component values by path.
//
// Readers and writers are borrowed through WithReader and WithWriter, which
// flush and release their buffers on every exit path and leave the
// underlying file or connection open. NewReader and NewWriter take
// ownership and close it.
//
//
//	err := stream.WithWriter(f, func(w stream.ByteWriter) error {
//		return rec.Encode(w)
//	})
package stream
