package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrDataTransform matches every DataTransformError.
	ErrDataTransform = errors.New("data transform failed")
	// ErrUnresolved is the cause reported by the Unresolved placeholder.
	ErrUnresolved = errors.New("no codec resolved")
	// ErrUnknownCodec is returned for names without a registered factory.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Direction of a failed transform.
const (
	OpEncode = "encode"
	OpDecode = "decode"
)

// DataTransformError reports a codec failing to convert one value.
type DataTransformError struct {
	Codec string
	Field string
	Op    string
	Value any
	Err   error
}

func (e *DataTransformError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Codec, e.Op)
	if e.Field != "" {
		msg += " of " + e.Field
	}

	if e.Value != nil {
		msg += fmt.Sprintf(" (%T %v)", e.Value, e.Value)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *DataTransformError) Unwrap() error { return e.Err }

// Is matches ErrDataTransform.
func (e *DataTransformError) Is(target error) bool {
	return target == ErrDataTransform
}

func encodeErr(c Codec, f Field, v any, err error) error {
	return &DataTransformError{Codec: c.Name(), Field: fieldName(f), Op: OpEncode, Value: v, Err: err}
}

func decodeErr(c Codec, f Field, v any, err error) error {
	return &DataTransformError{Codec: c.Name(), Field: fieldName(f), Op: OpDecode, Value: v, Err: err}
}
