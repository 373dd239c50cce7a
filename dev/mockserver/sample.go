package mockserver

import (
	"context"
	"fmt"
	"sync/atomic"

	"listingsdash/internal/components/chrono"
)

const reportDateLayout = "2006-01-02"

// SampleListings is a small neighborhood of ads to seed a dev database with.
func SampleListings(reportDate string) []Listing {
	return []Listing{
		{Url: "https://ads.example/stan/1001", Price: "185000", Area: "54", Rooms: "2.0", Floor: "III", MaxFloor: "5", GoToLink: "https://ads.example/stan/1001", ReportDate: reportDate, AddDate: reportDate},
		{Url: "https://ads.example/stan/1002", Price: "1200000", Area: "210", Rooms: "5.0", Floor: "PR", MaxFloor: "2", GoToLink: "https://ads.example/stan/1002", ReportDate: reportDate, AddDate: reportDate},
		{Url: "https://ads.example/stan/1003", Price: "99500", Area: "31", Rooms: "1.0", Floor: "VI", MaxFloor: "8", GoToLink: "https://ads.example/stan/1003", ReportDate: reportDate, AddDate: reportDate},
		{Url: "https://ads.example/stan/1004", Area: "72", Rooms: "3.0", Floor: "II", MaxFloor: "4", GoToLink: "https://ads.example/stan/1004", ReportDate: reportDate, AddDate: reportDate},
		{Url: "https://ads.example/stan/0999", Price: "150000", Area: "48", Rooms: "2.0", Floor: "I", MaxFloor: "3", ReportDate: reportDate, AddDate: reportDate, Inactive: true, RemovedDate: reportDate},
	}
}

// Seed fills an empty store with SampleListings, the first one is marked as new.
func Seed(ctx context.Context, store Store, clock chrono.API) error {
	listings := SampleListings(clock.Now().Format(reportDateLayout))
	err := store.Insert(ctx, ListingsTable, listings...)
	if err != nil {
		return err
	}
	return store.ReplaceNew(ctx, listings[0])
}

// NewScraper returns a Scrape func that "finds" one new ad per run.
func NewScraper(store Store, clock chrono.API) func(ctx context.Context) error {
	var counter atomic.Int64
	return func(ctx context.Context) error {
		n := counter.Add(1)
		today := clock.Now().Format(reportDateLayout)
		return store.ReplaceNew(ctx, Listing{
			Url:        fmt.Sprintf("https://ads.example/stan/run-%s-%d", today, n),
			Price:      fmt.Sprint(120000 + n*2500),
			Area:       fmt.Sprint(40 + n),
			Rooms:      "2.0",
			Floor:      "IV",
			MaxFloor:   "6",
			ReportDate: today,
			AddDate:    today,
		})
	}
}
