package adapter

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// scanKind selects the scan target used for a column.
type scanKind uint8

const (
	scanDynamic scanKind = iota
	scanSigned
	scanUnsigned
	scanFloat32
	scanFloat64
	scanText
)

// RowDecoder decodes the rows of one result set into core.Row values.
// Column metadata is read once, before iteration starts.
type RowDecoder struct {
	rows    *sql.Rows
	columns []core.ColumnDescriptor
	kinds   []scanKind
}

// NewRowDecoder reads the column metadata of rows.
func NewRowDecoder(rows *sql.Rows) (*RowDecoder, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}

	d := &RowDecoder{
		rows:    rows,
		columns: make([]core.ColumnDescriptor, len(types)),
		kinds:   make([]scanKind, len(types)),
	}
	for i, ct := range types {
		d.columns[i] = core.ColumnDescriptor{Name: ct.Name()}
		d.kinds[i] = kindForScanType(ct.ScanType())
	}
	return d, nil
}

// Columns returns the column descriptors in store order.
func (d *RowDecoder) Columns() []core.ColumnDescriptor {
	return d.columns
}

// Decode scans the current row. Call it only after rows.Next returned true.
//
// Columns are scanned by their declared type first. A cell whose stored
// value does not convert to that type, such as a REAL held in an SQLite
// INTEGER column, is classified from the driver's own value instead.
func (d *RowDecoder) Decode() (core.Row, error) {
	dest := make([]any, len(d.kinds))
	for i, k := range d.kinds {
		dest[i] = newScanTarget(k)
	}

	if err := d.rows.Scan(dest...); err != nil {
		dest, err = d.rescan()
		if err != nil {
			return nil, err
		}
	}

	row := make(core.Row, len(dest))
	for i, target := range dest {
		row[i] = core.Cell{Column: d.columns[i], Value: typedValue(target)}
	}
	return row, nil
}

// rescan decodes a row whose typed scan failed. Each column keeps its typed
// target when that target accepts the stored value.
func (d *RowDecoder) rescan() ([]any, error) {
	out := dynamicTargets(len(d.kinds))
	if err := d.rows.Scan(out...); err != nil {
		return nil, err
	}

	for i, k := range d.kinds {
		if k == scanDynamic {
			continue
		}
		dest := dynamicTargets(len(d.kinds))
		dest[i] = newScanTarget(k)
		if err := d.rows.Scan(dest...); err == nil {
			out[i] = dest[i]
		}
	}
	return out, nil
}

func dynamicTargets(n int) []any {
	dest := make([]any, n)
	for i := range dest {
		dest[i] = new(any)
	}
	return dest
}

// kindForScanType maps a driver scan type onto a scan target.
// sql.NullX and sql.Null[T] are unwrapped to their value type.
func kindForScanType(t reflect.Type) scanKind {
	if t == nil {
		return scanDynamic
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct && t.NumField() == 2 && t.Field(1).Name == "Valid" {
		t = t.Field(0).Type
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scanSigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scanUnsigned
	case reflect.Float32:
		return scanFloat32
	case reflect.Float64:
		return scanFloat64
	case reflect.String:
		return scanText
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return scanText
		}
	}
	return scanDynamic
}

func newScanTarget(k scanKind) any {
	switch k {
	case scanSigned:
		return new(sql.Null[int64])
	case scanUnsigned:
		return new(sql.Null[uint64])
	case scanFloat32:
		return new(sql.Null[float32])
	case scanFloat64:
		return new(sql.Null[float64])
	case scanText:
		return new(sql.Null[string])
	default:
		return new(any)
	}
}

func typedValue(target any) core.TypedValue {
	switch v := target.(type) {
	case *sql.Null[int64]:
		if !v.Valid {
			return core.Null()
		}
		return core.Integer(v.V)
	case *sql.Null[uint64]:
		if !v.Valid {
			return core.Null()
		}
		return core.UnsignedInteger(v.V)
	case *sql.Null[float32]:
		if !v.Valid {
			return core.Null()
		}
		return core.Float32(v.V)
	case *sql.Null[float64]:
		if !v.Valid {
			return core.Null()
		}
		return core.Float64(v.V)
	case *sql.Null[string]:
		if !v.Valid {
			return core.Null()
		}
		return core.Bytes([]byte(v.V))
	case *any:
		return core.FromNative(*v)
	default:
		return core.Unsupported(fmt.Sprintf("%T", target))
	}
}
