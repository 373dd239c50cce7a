package dashboard

import (
	"context"
	"testing"

	"listingsdash/internal/components/telemetry"
	"listingsdash/internal/listings"
	"listingsdash/internal/workbook"

	"github.com/stretchr/testify/require"
)

func TestExportRequiresBothTables(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.Load(context.Background(), AllListingsTable))

	err := env.engine.Export()
	require.ErrorIs(t, err, ErrTablesNotLoaded)
	require.Equal(t, []string{NoticeNotLoaded}, env.view.noticeList())
	require.Empty(t, env.sink.writes)
}

func TestExportWritesVisibleRows(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.LoadAll(context.Background()))

	all := env.engine.State().Table(AllListingsTable)
	require.NoError(t, all.Search("a"))

	require.NoError(t, env.engine.Export())
	require.Len(t, env.sink.writes, 1)
	require.Equal(t, []workbook.Sheet{
		{
			Name: "All Listings",
			Rows: [][]any{
				{"Price", "Area", "url"},
				{float64(550), "45", "a"},
			},
		},
		{
			Name: "New Listings",
			Rows: [][]any{
				{"Price", "Area", "url"},
				{"", "70", "c"},
			},
		},
	}, env.sink.writes[0])
	require.Empty(t, env.view.noticeList())
}

func TestExportFollowsSortAcrossPages(t *testing.T) {
	env := newTestEnv(t, nil)

	rows := make([]listings.Record, 30)
	for i := range rows {
		rows[i] = listings.Record{"id": float64(i), "Rooms": float64(i % 5), "Location": "Zemun"}
	}
	env.client.datasets[listings.ScopeAll] = listings.Dataset{Columns: []string{"id", "Rooms", "Location"}, Rows: rows}
	require.NoError(t, env.engine.LoadAll(context.Background()))

	all := env.engine.State().Table(AllListingsTable)
	require.NoError(t, all.SortBy("Rooms", true))
	require.NoError(t, all.SetPageLength(10))

	require.NoError(t, env.engine.Export())
	sheet := env.sink.writes[0][0]
	require.Len(t, sheet.Rows, 31)
	require.Equal(t, []any{float64(4), "Zemun"}, sheet.Rows[1])
	require.Equal(t, []any{float64(0), "Zemun"}, sheet.Rows[30])
}

func TestExportUsesLastGoodTable(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.engine.LoadAll(context.Background()))

	env.client.mu.Lock()
	env.client.listingsErr[listings.ScopeNew] = errNetwork
	env.client.mu.Unlock()
	require.Error(t, env.engine.Load(context.Background(), NewListingsTable))

	require.NoError(t, env.engine.Export())
	require.Len(t, env.sink.writes[0][1].Rows, 2)
}

type failingSink struct{}

func (failingSink) WriteWorkbook([]workbook.Sheet) error {
	return errNetwork
}

func TestExportSinkFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.engine.sink = failingSink{}
	require.NoError(t, env.engine.LoadAll(context.Background()))

	require.ErrorIs(t, env.engine.Export(), errNetwork)
	require.Len(t, env.tel.Reports(telemetry.KindBroken), 1)
}
