package core

import (
	"database/sql"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// ColumnDescriptor describes one column as reported by the store.
// Names are not unique within a row.
type ColumnDescriptor struct {
	Name string
}

// Cell pairs a column with its value.
type Cell struct {
	Column ColumnDescriptor
	Value  TypedValue
}

// Row is one decoded row in store-reported column order.
type Row []Cell

// ProjectedRow maps column names to generic values in column order.
// Values are one of int64, uint64, float32, float64, string or nil.
type ProjectedRow = orderedmap.OrderedMap[string, any]

// NewProjectedRow returns an empty ProjectedRow.
func NewProjectedRow() *ProjectedRow {
	return orderedmap.New[string, any]()
}

// ResultSet is the ordered sequence of projected rows returned by one query.
type ResultSet []*ProjectedRow

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}
