// Package grid is the in-memory table widget that displays one dataset: display columns
// with per-column renderers, a global search, a single-column sort and pagination.
package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"listingsdash/internal/listings"
)

// PageLengths are the page sizes a table can be switched to.
var PageLengths = []int{10, 25, 50, 100}

const DefaultPageLength = 25

// Renderer turns a raw record value into display text.
type Renderer func(value any) string

type Column struct {
	Name   string
	Render Renderer
}

// Table is a live grid bound to a table identifier. Once destroyed it rejects
// further changes, a refresh builds a new Table instead of mutating an old one.
type Table struct {
	mu sync.RWMutex

	id      string
	columns []Column
	rows    []listings.Record

	orderColumn int
	orderDesc   bool
	search      string
	pageLength  int
	page        int

	destroyed bool
}

var ErrDestroyed = fmt.Errorf("grid: table has been destroyed")

// New creates a table ordered by its first column ascending, showing the first page.
func New(id string, columns []Column, rows []listings.Record) *Table {
	for i, c := range columns {
		if c.Render == nil {
			columns[i].Render = PassThrough
		}
	}
	return &Table{
		id:         id,
		columns:    columns,
		rows:       rows,
		pageLength: DefaultPageLength,
	}
}

// PassThrough renders nil as an empty string and anything else with its default format.
func PassThrough(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (t *Table) ID() string {
	return t.id
}

// Headers returns the display column names in order.
func (t *Table) Headers() []string {
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.Name
	}
	return headers
}

// Total returns the number of rows before search is applied.
func (t *Table) Total() int {
	return len(t.rows)
}

func (t *Table) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
}

func (t *Table) Destroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Search sets the global search, every whitespace separated word must appear
// (case-insensitively) in some rendered cell of a row for the row to stay visible.
func (t *Table) Search(query string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	t.search = strings.TrimSpace(query)
	t.page = 0
	return nil
}

func (t *Table) SortBy(column string, desc bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	for i, c := range t.columns {
		if c.Name == column {
			t.orderColumn = i
			t.orderDesc = desc
			return nil
		}
	}
	return fmt.Errorf("grid: unknown column %q", column)
}

func (t *Table) SetPageLength(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	for _, allowed := range PageLengths {
		if n == allowed {
			t.pageLength = n
			t.page = 0
			return nil
		}
	}
	return fmt.Errorf("grid: page length must be one of %v", PageLengths)
}

// SetPage moves to the given zero-based page, clamped to the available pages.
func (t *Table) SetPage(page int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	if page < 0 {
		page = 0
	}
	t.page = page
	return nil
}

// Rows returns every row that passes the search, in display order, ignoring pagination.
func (t *Table) Rows() []listings.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visible()
}

// PageRows returns the rows of the current page.
func (t *Table) PageRows() []listings.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	start, end, visible := t.pageBounds()
	return visible[start:end]
}

// Cell renders a record value for the named column.
func (t *Table) Cell(record listings.Record, column string) string {
	for _, c := range t.columns {
		if c.Name == column {
			return c.Render(record[column])
		}
	}
	return PassThrough(record[column])
}

// Info describes the current page, "Showing 1 to 25 of 40 listings".
func (t *Table) Info() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start, end, visible := t.pageBounds()
	var info string
	if len(visible) == 0 {
		info = "No listings available"
		if len(t.rows) > 0 {
			info = "No matching listings found"
		}
	} else {
		info = fmt.Sprintf("Showing %d to %d of %d listings", start+1, end, len(visible))
	}
	if t.search != "" {
		info += fmt.Sprintf(" (filtered from %d total listings)", len(t.rows))
	}
	return info
}

func (t *Table) pageBounds() (start, end int, visible []listings.Record) {
	visible = t.visible()
	pages := (len(visible) + t.pageLength - 1) / t.pageLength
	page := t.page
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	start = page * t.pageLength
	end = start + t.pageLength
	if end > len(visible) {
		end = len(visible)
	}
	return start, end, visible
}

func (t *Table) visible() []listings.Record {
	words := strings.Fields(strings.ToLower(t.search))

	out := make([]listings.Record, 0, len(t.rows))
	for _, row := range t.rows {
		if t.matches(row, words) {
			out = append(out, row)
		}
	}

	if len(t.columns) == 0 {
		return out
	}
	key := t.columns[t.orderColumn].Name
	sort.SliceStable(out, func(i, j int) bool {
		if t.orderDesc {
			return less(out[j][key], out[i][key])
		}
		return less(out[i][key], out[j][key])
	})
	return out
}

func (t *Table) matches(row listings.Record, words []string) bool {
	if len(words) == 0 {
		return true
	}
	cells := make([]string, len(t.columns))
	for i, c := range t.columns {
		cells[i] = strings.ToLower(c.Render(row[c.Name]))
	}
	for _, word := range words {
		found := false
		for _, cell := range cells {
			if strings.Contains(cell, word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// less orders empty values first, numbers (including numeric strings) numerically
// and everything else by case-insensitive text.
func less(a, b any) bool {
	aText, bText := PassThrough(a), PassThrough(b)
	if aText == "" || bText == "" {
		return aText == "" && bText != ""
	}
	aNum, aErr := strconv.ParseFloat(aText, 64)
	bNum, bErr := strconv.ParseFloat(bText, 64)
	if aErr == nil && bErr == nil {
		return aNum < bNum
	}
	return strings.ToLower(aText) < strings.ToLower(bText)
}
