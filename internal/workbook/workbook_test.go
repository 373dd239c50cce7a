package workbook

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ListingsExport.xlsx")
	sink := FileSink{Path: path}

	err := sink.WriteWorkbook([]Sheet{
		{
			Name: "All Listings",
			Rows: [][]any{
				{"Price", "Area", "Location"},
				{float64(550), "45", "Vracar"},
				{nil, "60", ""},
			},
		},
		{
			Name: "New Listings",
			Rows: [][]any{
				{"Price", "Area", "Location"},
			},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"All Listings", "New Listings"}, f.GetSheetList())

	rows, err := f.GetRows("All Listings")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Price", "Area", "Location"},
		{"550", "45", "Vracar"},
		{"", "60"},
	}, rows)

	rows, err = f.GetRows("New Listings")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Price", "Area", "Location"}}, rows)
}

func TestWriteRejectsEmptyWorkbook(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, Write(&out, nil))
	require.Zero(t, out.Len())
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	err := Write(&out, []Sheet{{Name: "Only", Rows: [][]any{{"a"}}}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Only"}, f.GetSheetList())
}
