// Package projector converts decoded store rows into schema-less structured values.
package projector

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"golang.org/x/text/encoding/unicode"
)

// Project converts one row into an ordered mapping of column name to value.
//
// Integer, UnsignedInteger, Float32 and Float64 keep their Go numeric type.
// Bytes become strings, with invalid UTF-8 replaced by U+FFFD. Null and
// Unsupported become nil, as do NaN and infinite floats. When column names repeat, the last value wins
// and the key keeps the position of its first occurrence.
func Project(row core.Row) *core.ProjectedRow {
	out := core.NewProjectedRow()
	for _, cell := range row {
		out.Set(cell.Column.Name, Value(cell.Value))
	}
	return out
}

// Value returns the generic value for a single cell.
func Value(v core.TypedValue) any {
	switch v.Kind() {
	case core.KindInteger:
		i, _ := v.Int()
		return i
	case core.KindUnsignedInteger:
		u, _ := v.Uint()
		return u
	case core.KindFloat32:
		f, _ := v.Float32()
		if !finite(float64(f)) {
			return nil
		}
		return f
	case core.KindFloat64:
		d, _ := v.Float64()
		if !finite(d) {
			return nil
		}
		return d
	case core.KindBytes:
		b, _ := v.Bytes()
		return lossyString(b)
	default:
		return nil
	}
}

// finite reports whether f has a JSON representation.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// lossyString decodes b as UTF-8, replacing invalid sequences.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	// The UTF-8 decoder substitutes U+FFFD and does not fail on bad input.
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(decoded)
}
