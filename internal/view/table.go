// Package view builds the view models rendered by the table, form dialog and
// confirm dialog templates. It holds no state of its own.
package view

import (
	"strconv"

	"admin-console/internal/models"
)

// SkeletonRows is the number of placeholder rows shown while loading.
const SkeletonRows = 5

// EmptyMessage is the text of the single row shown for an empty collection.
const EmptyMessage = "No results."

// Column describes one table column.
type Column struct {
	Key    string
	Header string
	// Render formats the cell. When nil the item's value under Key is shown.
	Render func(item models.Item) string
}

// Value returns the display value of the column for item.
func (c Column) Value(item models.Item) string {
	if c.Render != nil {
		return c.Render(item)
	}
	return item.Field(c.Key)
}

// TableOptions wires the row events. An empty path disables the event.
type TableOptions struct {
	IDField string
	// ActivatePath receives row clicks as ActivatePath/{key}.
	ActivatePath string
	// DeletePath receives delete clicks as DeletePath/{id}.
	DeletePath string
	// Target is the element the event responses are swapped into.
	Target string
}

// Row is one rendered table row.
type Row struct {
	// Key identifies the row: the item id, or its zero-based position when
	// the item has none.
	Key   string
	Index int
	ID    string
	Cells []string
}

// Table is the view model of the generic table.
type Table struct {
	Headers    []string
	Rows       []Row
	Loading    bool
	Skeleton   []int
	Error      string
	HasActions bool
	CanDelete  bool
	Colspan    int
	Options    TableOptions
}

// NewTable renders items. Loading wins over loadError, which wins over rows.
func NewTable(items []models.Item, columns []Column, loading bool, loadError string, opts TableOptions) Table {
	if opts.IDField == "" {
		opts.IDField = "id"
	}

	t := Table{
		Loading:    loading,
		Error:      loadError,
		HasActions: opts.ActivatePath != "" || opts.DeletePath != "",
		CanDelete:  opts.DeletePath != "",
		Options:    opts,
	}
	if loading {
		t.Skeleton = make([]int, SkeletonRows)
		for i := range t.Skeleton {
			t.Skeleton[i] = i
		}
		t.Error = ""
		return t
	}
	if loadError != "" {
		return t
	}

	t.Headers = make([]string, len(columns))
	for i, c := range columns {
		t.Headers[i] = c.Header
	}
	t.Colspan = len(columns) + 1
	if t.HasActions {
		t.Colspan++
	}

	t.Rows = make([]Row, len(items))
	for i, item := range items {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = c.Value(item)
		}
		id, _ := item.ID(opts.IDField)
		t.Rows[i] = Row{Key: RowKey(item, opts.IDField, i), Index: i + 1, ID: id, Cells: cells}
	}
	return t
}

// Empty reports whether the "No results." row is shown.
func (t Table) Empty() bool {
	return !t.Loading && t.Error == "" && len(t.Rows) == 0
}

// RowKey returns item's id, falling back to its position. Items without an
// id are only stable for as long as the collection is unchanged.
func RowKey(item models.Item, idField string, index int) string {
	if id, ok := item.ID(idField); ok {
		return id
	}
	return strconv.Itoa(index)
}
