// Package core defines the shared data model of the LeapBridge system.
//
// This package contains:
//   - Cell-level values (TypedValue, Kind)
//   - Row shapes (ColumnDescriptor, Cell, Row)
//   - Projected output (ProjectedRow, ResultSet)
//   - The driver-level row handle (Rows)
//
// The Golden Rule: pkg/core imports ONLY stdlib and the ordered map it
// exposes. All other packages depend on core, not the reverse.
package core
