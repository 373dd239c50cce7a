package mockserver

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

type Table string

const (
	ListingsTable    Table = "listings"
	NewListingsTable Table = "new_listings"
)

var ErrUnknownColumn = errors.New("no such column")

// Listing is one scraped apartment ad, empty fields are stored as NULL.
type Listing struct {
	Url         string
	Price       string
	Area        string
	Rooms       string
	Floor       string
	MaxFloor    string
	AdText      string
	GoToLink    string
	ReportDate  string
	RemovedDate string
	AddDate     string
	Inactive    bool
}

// Result is a query result in the shape the listings endpoint returns it.
type Result struct {
	Columns []string
	Rows    []map[string]any
}

type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the sqlite database at path.
func OpenStore(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("create schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func insert(ctx context.Context, tx *sql.Tx, table Table, l Listing) error {
	active := 1
	if l.Inactive {
		active = 0
	}
	_, err := tx.ExecContext(
		ctx,
		fmt.Sprintf(`insert into %s (url, Price, Area, Rooms, Floor, "Max Floor", AdText, GoToLink, ReportDate, is_active, removed_date, add_date)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (url) do update set
    Price = excluded.Price,
    Area = excluded.Area,
    is_active = excluded.is_active,
    removed_date = excluded.removed_date`, table),
		l.Url,
		nullable(l.Price),
		nullable(l.Area),
		nullable(l.Rooms),
		nullable(l.Floor),
		nullable(l.MaxFloor),
		nullable(l.AdText),
		nullable(l.GoToLink),
		nullable(l.ReportDate),
		active,
		nullable(l.RemovedDate),
		nullable(l.AddDate),
	)
	return err
}

// Insert upserts listings into the table by url.
func (s Store) Insert(ctx context.Context, table Table, listings ...Listing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, l := range listings {
		err = insert(ctx, tx, table, l)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplaceNew records the result of a scrape: new_listings is cleared and refilled with
// the given listings, which are also upserted into listings.
func (s Store) ReplaceNew(ctx context.Context, listings ...Listing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from new_listings")
	if err != nil {
		return err
	}
	for _, l := range listings {
		err = insert(ctx, tx, NewListingsTable, l)
		if err != nil {
			return err
		}
		err = insert(ctx, tx, ListingsTable, l)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s Store) columns(ctx context.Context, table Table) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("select * from %s limit 0", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

func quote(column string) string {
	return `"` + strings.ReplaceAll(column, `"`, `""`) + `"`
}

// Query returns the active rows of the table where every filtered column contains
// its value.
func (s Store) Query(ctx context.Context, table Table, filters map[string]string) (Result, error) {
	if table != ListingsTable && table != NewListingsTable {
		return Result{}, fmt.Errorf("unknown table %q", table)
	}

	known, err := s.columns(ctx, table)
	if err != nil {
		return Result{}, err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, c := range known {
		knownSet[c] = struct{}{}
	}

	filtered := make([]string, 0, len(filters))
	for column := range filters {
		if _, ok := knownSet[column]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
		}
		filtered = append(filtered, column)
	}
	sort.Strings(filtered)

	var query strings.Builder
	fmt.Fprintf(&query, "select * from %s where is_active = 1", table)
	args := make([]any, 0, len(filtered))
	for _, column := range filtered {
		fmt.Fprintf(&query, " and %s like ?", quote(column))
		args = append(args, "%"+filters[column]+"%")
	}
	query.WriteString(" order by id")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	result := Result{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		err = rows.Scan(ptrs...)
		if err != nil {
			return Result{}, err
		}

		record := make(map[string]any, len(columns))
		for i, column := range columns {
			value := values[i]
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			record[column] = value
		}
		result.Rows = append(result.Rows, record)
	}
	return result, rows.Err()
}
