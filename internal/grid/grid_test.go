package grid

import (
	"bytes"
	"fmt"
	"testing"

	"listingsdash/internal/listings"

	"github.com/stretchr/testify/require"
)

func testRows() []listings.Record {
	return []listings.Record{
		{"Location": "Vracar", "Price": float64(550), "Rooms": "2.0"},
		{"Location": "Dorcol", "Price": float64(480), "Rooms": "1.5"},
		{"Location": "Zemun", "Price": nil, "Rooms": "3.0"},
		{"Location": "Novi Beograd", "Price": "1200", "Rooms": "2.0"},
	}
}

func testColumns() []Column {
	return []Column{
		{Name: "Location"},
		{Name: "Price", Render: func(v any) string {
			if v == nil {
				return ""
			}
			return PassThrough(v) + " €"
		}},
		{Name: "Rooms"},
	}
}

func locations(rows []listings.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["Location"].(string)
	}
	return out
}

func TestDefaultOrderIsFirstColumnAscending(t *testing.T) {
	tbl := New("allListingsTable", testColumns(), testRows())
	require.Equal(t, []string{"Dorcol", "Novi Beograd", "Vracar", "Zemun"}, locations(tbl.Rows()))
	require.Equal(t, []string{"Location", "Price", "Rooms"}, tbl.Headers())
}

func TestSortBy(t *testing.T) {
	tbl := New("allListingsTable", testColumns(), testRows())

	require.NoError(t, tbl.SortBy("Price", false))
	// empty first, numeric strings compare as numbers
	require.Equal(t, []string{"Zemun", "Dorcol", "Vracar", "Novi Beograd"}, locations(tbl.Rows()))

	require.NoError(t, tbl.SortBy("Price", true))
	require.Equal(t, []string{"Novi Beograd", "Vracar", "Dorcol", "Zemun"}, locations(tbl.Rows()))

	require.Error(t, tbl.SortBy("id", false))
}

func TestSearch(t *testing.T) {
	tbl := New("allListingsTable", testColumns(), testRows())

	require.NoError(t, tbl.Search("2.0"))
	require.Equal(t, []string{"Novi Beograd", "Vracar"}, locations(tbl.Rows()))

	// every word has to match somewhere in the row
	require.NoError(t, tbl.Search("beograd 2.0"))
	require.Equal(t, []string{"Novi Beograd"}, locations(tbl.Rows()))

	// rendered text is searched, not the raw value
	require.NoError(t, tbl.Search("550 €"))
	require.Equal(t, []string{"Vracar"}, locations(tbl.Rows()))

	require.NoError(t, tbl.Search("nothing-matches"))
	require.Empty(t, tbl.Rows())
	require.Equal(t, "No matching listings found (filtered from 4 total listings)", tbl.Info())
}

func TestPagination(t *testing.T) {
	rows := make([]listings.Record, 30)
	for i := range rows {
		rows[i] = listings.Record{"Location": fmt.Sprintf("L%02d", i)}
	}
	tbl := New("newListingsTable", []Column{{Name: "Location"}}, rows)

	require.Len(t, tbl.PageRows(), 25)
	require.Equal(t, "Showing 1 to 25 of 30 listings", tbl.Info())

	require.NoError(t, tbl.SetPage(1))
	require.Len(t, tbl.PageRows(), 5)
	require.Equal(t, "Showing 26 to 30 of 30 listings", tbl.Info())

	// pagination does not restrict Rows
	require.Len(t, tbl.Rows(), 30)

	require.NoError(t, tbl.SetPageLength(10))
	require.Len(t, tbl.PageRows(), 10)
	require.Error(t, tbl.SetPageLength(7))
}

func TestDestroyedTableRejectsChanges(t *testing.T) {
	tbl := New("allListingsTable", testColumns(), testRows())
	tbl.Destroy()
	require.True(t, tbl.Destroyed())
	require.ErrorIs(t, tbl.Search("x"), ErrDestroyed)
	require.ErrorIs(t, tbl.SortBy("Price", false), ErrDestroyed)
	require.ErrorIs(t, tbl.Render(&bytes.Buffer{}), ErrDestroyed)
}

func TestRender(t *testing.T) {
	rows := []listings.Record{
		{"Location": "Vracar", "url": `<a href="https://example.com/1" target="_blank">View</a>`},
	}
	tbl := New("allListingsTable", []Column{{Name: "Location"}, {Name: "url"}}, rows)

	var out bytes.Buffer
	require.NoError(t, tbl.Render(&out))
	require.Contains(t, out.String(), "https://example.com/1")
	require.NotContains(t, out.String(), "<a href")
	require.Contains(t, out.String(), "Showing 1 to 1 of 1 listings")
}

func TestPassThrough(t *testing.T) {
	require.Equal(t, "", PassThrough(nil))
	require.Equal(t, "42", PassThrough(float64(42)))
	require.Equal(t, "42.5", PassThrough(42.5))
	require.Equal(t, "true", PassThrough(true))
	require.Equal(t, "x", PassThrough("x"))
}
