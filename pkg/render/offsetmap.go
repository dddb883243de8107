package render

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotMonotonic is returned by Validate when entries are out of order.
var ErrNotMonotonic = errors.New("offset map is not strictly increasing")

// Entry pairs the source start offset of a render row with its row index.
type Entry struct {
	Offset int
	Row    int
}

// OffsetMap is an ordered sequence of (offset, row) pairs, strictly
// increasing in both coordinates. All lookups are total: out-of-range input
// clamps to the nearest boundary.
type OffsetMap struct {
	entries []Entry
}

// NewOffsetMap builds a map from entries. The slice is copied.
func NewOffsetMap(entries []Entry) *OffsetMap {
	return &OffsetMap{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of rows.
func (m *OffsetMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the map entries.
func (m *OffsetMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// OffsetToRow returns the row of the last entry whose offset is <= offset.
// Offsets before the first entry map to the first row. An empty map
// returns 0.
func (m *OffsetMap) OffsetToRow(offset int) int {
	if m.Len() == 0 {
		return 0
	}
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Offset > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return m.entries[idx].Row
}

// RowToOffset returns the start offset of row, clamping row into range.
// An empty map returns 0.
func (m *OffsetMap) RowToOffset(row int) int {
	if m.Len() == 0 {
		return 0
	}
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Row >= row
	})
	if idx == len(m.entries) {
		idx--
	}
	return m.entries[idx].Offset
}

// Page moves delta rows from row and clamps the result into range. It is the
// page-up (negative delta) and page-down helper.
func (m *OffsetMap) Page(row, delta int) int {
	n := m.Len()
	if n == 0 {
		return 0
	}
	first, last := m.entries[0].Row, m.entries[n-1].Row
	return min(max(row+delta, first), last)
}

// Validate checks that offsets and rows are both strictly increasing.
func (m *OffsetMap) Validate() error {
	for i := 1; i < m.Len(); i++ {
		prev, cur := m.entries[i-1], m.entries[i]
		if cur.Offset <= prev.Offset {
			return fmt.Errorf("%w: offset %d at row %d follows %d", ErrNotMonotonic, cur.Offset, cur.Row, prev.Offset)
		}
		if cur.Row <= prev.Row {
			return fmt.Errorf("%w: row %d follows %d", ErrNotMonotonic, cur.Row, prev.Row)
		}
	}
	return nil
}
