package projector

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(cells ...core.Cell) core.Row { return core.Row(cells) }

func cell(name string, v core.TypedValue) core.Cell {
	return core.Cell{Column: core.ColumnDescriptor{Name: name}, Value: v}
}

func keys(p *core.ProjectedRow) []string {
	var out []string
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestProject_Fidelity(t *testing.T) {
	got := Project(row(
		cell("id", core.Integer(7)),
		cell("label", core.Bytes([]byte("abc"))),
		cell("note", core.Null()),
		cell("score", core.Float64(1.5)),
	))

	assert.Equal(t, []string{"id", "label", "note", "score"}, keys(got))

	id, _ := got.Get("id")
	assert.Equal(t, int64(7), id)
	label, _ := got.Get("label")
	assert.Equal(t, "abc", label)
	note, ok := got.Get("note")
	assert.True(t, ok)
	assert.Nil(t, note)
	score, _ := got.Get("score")
	assert.Equal(t, 1.5, score)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"label":"abc","note":null,"score":1.5}`, string(b))
	assert.Equal(t, `{"id":7,"label":"abc","note":null,"score":1.5}`, string(b), "key order is column order")
}

func TestProject_DuplicateColumnsLastWins(t *testing.T) {
	got := Project(row(
		cell("x", core.Integer(1)),
		cell("x", core.Integer(2)),
	))

	assert.Equal(t, 1, got.Len())
	x, _ := got.Get("x")
	assert.Equal(t, int64(2), x)
}

func TestProject_DuplicateKeepsFirstPosition(t *testing.T) {
	got := Project(row(
		cell("a", core.Integer(1)),
		cell("b", core.Integer(2)),
		cell("a", core.Integer(3)),
	))

	assert.Equal(t, []string{"a", "b"}, keys(got))
	a, _ := got.Get("a")
	assert.Equal(t, int64(3), a)
}

func TestProject_EmptyRow(t *testing.T) {
	got := Project(nil)
	assert.Equal(t, 0, got.Len())
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   core.TypedValue
		want any
	}{
		{name: "integer", in: core.Integer(-4), want: int64(-4)},
		{name: "unsigned", in: core.UnsignedInteger(18446744073709551615), want: uint64(18446744073709551615)},
		{name: "float32 keeps precision", in: core.Float32(0.1), want: float32(0.1)},
		{name: "float64", in: core.Float64(0.1), want: 0.1},
		{name: "utf8 bytes", in: core.Bytes([]byte("héllo")), want: "héllo"},
		{name: "empty bytes", in: core.Bytes([]byte{}), want: ""},
		{name: "null", in: core.Null(), want: nil},
		{name: "unsupported degrades to null", in: core.Unsupported("time.Time"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestValue_NonFiniteFloatsBecomeNull(t *testing.T) {
	tests := []struct {
		name string
		in   core.TypedValue
	}{
		{name: "float64 nan", in: core.Float64(math.NaN())},
		{name: "float64 +inf", in: core.Float64(math.Inf(1))},
		{name: "float64 -inf", in: core.Float64(math.Inf(-1))},
		{name: "float32 nan", in: core.Float32(float32(math.NaN()))},
		{name: "float32 +inf", in: core.Float32(float32(math.Inf(1)))},
		{name: "float32 -inf", in: core.Float32(float32(math.Inf(-1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Value(tt.in))
		})
	}
}

func TestProject_NonFiniteFloatEncodesAsNull(t *testing.T) {
	r := row(
		cell("id", core.Integer(1)),
		cell("score", core.Float64(math.Inf(1))),
		cell("ratio", core.Float32(float32(math.NaN()))),
	)

	b, err := json.Marshal(Project(r))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"score":null,"ratio":null}`, string(b))
}

func TestValue_InvalidUTF8IsReplaced(t *testing.T) {
	got := Value(core.Bytes([]byte{'o', 'k', 0xff, '!'}))

	s, ok := got.(string)
	require.True(t, ok)
	assert.Contains(t, s, "�")
	assert.Equal(t, "ok", s[:2])
	assert.Equal(t, "!", s[len(s)-1:])
}
