package core

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant of a TypedValue is active.
type Kind uint8

// Kind constants. The zero value is KindNull.
const (
	KindNull Kind = iota
	KindInteger
	KindUnsignedInteger
	KindFloat32
	KindFloat64
	KindBytes
	KindUnsupported
)

// String returns the variant name for debugging.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInteger:
		return "Integer"
	case KindUnsignedInteger:
		return "UnsignedInteger"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindBytes:
		return "Bytes"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// TypedValue is the native storage value of a single cell.
// Exactly one variant is active; construct values with the helpers below.
// The zero TypedValue is Null.
type TypedValue struct {
	kind   Kind
	i      int64
	u      uint64
	f32    float32
	f64    float64
	b      []byte
	native string
}

// Integer returns a signed 64-bit value.
func Integer(i int64) TypedValue { return TypedValue{kind: KindInteger, i: i} }

// UnsignedInteger returns an unsigned 64-bit value.
func UnsignedInteger(u uint64) TypedValue { return TypedValue{kind: KindUnsignedInteger, u: u} }

// Float32 returns a single precision value.
func Float32(f float32) TypedValue { return TypedValue{kind: KindFloat32, f32: f} }

// Float64 returns a double precision value.
func Float64(d float64) TypedValue { return TypedValue{kind: KindFloat64, f64: d} }

// Bytes returns a raw byte value. The slice is retained, not copied.
func Bytes(b []byte) TypedValue { return TypedValue{kind: KindBytes, b: b} }

// Null returns the null value.
func Null() TypedValue { return TypedValue{} }

// Unsupported returns a value of a native type outside the known set.
// nativeType names that type and is informational only.
func Unsupported(nativeType string) TypedValue {
	return TypedValue{kind: KindUnsupported, native: nativeType}
}

// Kind reports the active variant.
func (v TypedValue) Kind() Kind { return v.kind }

// Int returns the Integer payload; ok is false for any other variant.
func (v TypedValue) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Uint returns the UnsignedInteger payload.
func (v TypedValue) Uint() (uint64, bool) { return v.u, v.kind == KindUnsignedInteger }

// Float32 returns the Float32 payload.
func (v TypedValue) Float32() (float32, bool) { return v.f32, v.kind == KindFloat32 }

// Float64 returns the Float64 payload.
func (v TypedValue) Float64() (float64, bool) { return v.f64, v.kind == KindFloat64 }

// Bytes returns the Bytes payload.
func (v TypedValue) Bytes() ([]byte, bool) { return v.b, v.kind == KindBytes }

// NativeType returns the Go type name recorded for an Unsupported value.
func (v TypedValue) NativeType() string { return v.native }

// String renders the value for debugging and test failure output.
func (v TypedValue) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.i)
	case KindUnsignedInteger:
		return fmt.Sprintf("UnsignedInteger(%d)", v.u)
	case KindFloat32:
		return fmt.Sprintf("Float32(%g)", v.f32)
	case KindFloat64:
		return fmt.Sprintf("Float64(%g)", v.f64)
	case KindBytes:
		return fmt.Sprintf("Bytes(%q)", v.b)
	case KindUnsupported:
		return fmt.Sprintf("Unsupported(%s)", v.native)
	default:
		return "Null"
	}
}

// FromNative classifies a value produced by a database/sql driver.
// Values outside the known set become Unsupported rather than failing.
func FromNative(src any) TypedValue {
	switch v := src.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(v)
	case int:
		return Integer(int64(v))
	case int32:
		return Integer(int64(v))
	case int16:
		return Integer(int64(v))
	case int8:
		return Integer(int64(v))
	case uint64:
		return UnsignedInteger(v)
	case uint:
		return UnsignedInteger(uint64(v))
	case uint32:
		return UnsignedInteger(uint64(v))
	case uint16:
		return UnsignedInteger(uint64(v))
	case uint8:
		return UnsignedInteger(uint64(v))
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case []byte:
		return Bytes(v)
	case string:
		return Bytes([]byte(v))
	default:
		return Unsupported(fmt.Sprintf("%T", src))
	}
}
