package primitive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(KindInt8, KindInt64, CategorySafeNumber))
	assert.True(t, Allowed(KindUint16, KindInt32, CategorySafeNumber))
	assert.False(t, Allowed(KindInt64, KindInt32, CategorySafeNumber))
	assert.True(t, Allowed(KindInt64, KindInt32, CategoryUnsafeNumber))
	assert.False(t, Allowed(KindInt32, KindUint32, CategorySafeNumber))
	assert.False(t, Allowed(KindInt64, KindFloat64, CategorySafeNumber))
	assert.True(t, Allowed(KindInt32, KindFloat64, CategorySafeNumber))
	assert.True(t, Allowed(KindString, KindBool, CategoryTextualBool))
	assert.False(t, Allowed(KindString, KindBool, CategoryTextNumber))
	assert.True(t, Allowed(KindString, KindString, CategoryNone))
}

func TestConvert_Numbers(t *testing.T) {
	v, err := Convert(int8(-5), KindInt64, CategorySafeNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), v)

	v, err = Convert(int64(42), KindInt32, CategoryUnsafeNumber)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = Convert(int64(1)<<40, KindInt32, CategoryUnsafeNumber)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Convert(int64(-1), KindUint8, CategoryUnsafeNumber)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Convert(int64(1), KindInt32, CategorySafeNumber)
	require.ErrorIs(t, err, ErrNotAllowed)

	v, err = Convert(float64(3), KindInt16, CategoryUnsafeNumber)
	require.NoError(t, err)
	assert.Equal(t, int16(3), v)

	_, err = Convert(3.5, KindInt16, CategoryUnsafeNumber)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestConvert_Text(t *testing.T) {
	v, err := Convert("17", KindUint16, CategoryTextNumber)
	require.NoError(t, err)
	assert.Equal(t, uint16(17), v)

	v, err = Convert(int32(-9), KindString, CategoryTextNumber)
	require.NoError(t, err)
	assert.Equal(t, "-9", v)

	v, err = Convert("yes", KindBool, CategoryTextualBool)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Convert("1h30m", KindDuration, CategoryDuration)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, v)

	v, err = Convert("2024-01-02T03:04:05Z", KindTime, CategoryDatetime)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(v.(time.Time)))

	v, err = Convert("abc", KindBytes, CategoryBinaryText)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
}

func TestConvert_NamedTypes(t *testing.T) {
	type Status string

	v, err := Convert(Status("PAID"), KindString, CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, "PAID", v)
}

func TestConvert_BoolAndTime(t *testing.T) {
	v, err := Convert(1, KindBool, CategoryNumericBool)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = Convert(2, KindBool, CategoryNumericBool)
	require.Error(t, err)

	v, err = Convert(true, KindUint8, CategoryNumericBool)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)

	v, err = Convert(int64(0), KindTime, CategoryTimestamp)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.(time.Time).Unix())

	v, err = Convert(1.5, KindDuration, CategorySeconds)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, v)
}
