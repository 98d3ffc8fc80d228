package primitive_test

import (
	"fmt"
	"reflect"
	"time"

	"metabind/primitive"
)

func Example() {
	type OrderStatus string
	type Address struct{}

	for _, v := range []any{int64(0), OrderStatus(""), time.Time{}, []byte(nil), Address{}} {
		t := reflect.TypeOf(v)
		fmt.Printf("%s: %v (stored as %v)\n", t, primitive.FromReflectType(t), primitive.Underlying(t))
	}

	// Output:
	// int64: KindInt64 (stored as KindInt64)
	// primitive_test.OrderStatus: KindPrimitiveEnum (stored as KindString)
	// time.Time: KindTime (stored as KindTime)
	// []uint8: KindBytes (stored as KindBytes)
	// primitive_test.Address: KindEnum(0) (stored as KindEnum(0))
}

func ExampleFromName() {
	for _, name := range []string{"int32", "byte", "duration", "decimal"} {
		k := primitive.FromName(name)
		fmt.Println(name, k.IsValid(), k.Name())
	}

	// Output:
	// int32 true int32
	// byte true uint8
	// duration true duration
	// decimal false
}
