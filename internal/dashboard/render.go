package dashboard

import (
	"math"
	"strconv"
	"strings"

	"listingsdash/internal/grid"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// columns the server sends for row-level bookkeeping that are never displayed
var hiddenColumns = map[string]struct{}{
	"id":           {},
	"removed_date": {},
	"is_active":    {},
	"ReportDate":   {},
	"GoToLink":     {},
}

const (
	priceColumn = "Price"
	areaColumn  = "Area"

	currencySuffix = " €"
	areaSuffix     = " m²"
)

var pricePrinter = message.NewPrinter(language.MustParse("sr-RS"))

// DisplayColumns drops the hidden columns, keeping the server's order.
func DisplayColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, hidden := hiddenColumns[c]; hidden {
			continue
		}
		out = append(out, c)
	}
	return out
}

func gridColumns(columns []string) []grid.Column {
	out := make([]grid.Column, len(columns))
	for i, name := range columns {
		out[i] = grid.Column{Name: name, Render: ColumnRenderer(name)}
	}
	return out
}

func ColumnRenderer(column string) grid.Renderer {
	switch column {
	case priceColumn:
		return FormatPrice
	case areaColumn:
		return FormatArea
	default:
		return grid.PassThrough
	}
}

// toNumber accepts json numbers and numeric text, the listings database stores
// prices as TEXT.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// isBlank is true for the values the price and area columns leave empty.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return v == 0
	}
	return false
}

// FormatPrice groups digits the way the sr-RS locale does and appends the currency,
// 1200000 becomes "1.200.000 €".
func FormatPrice(value any) string {
	if isBlank(value) {
		return ""
	}
	f, ok := toNumber(value)
	if !ok {
		return grid.PassThrough(value)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return pricePrinter.Sprintf("%d", int64(f)) + currencySuffix
	}
	return pricePrinter.Sprint(number.Decimal(f, number.MaxFractionDigits(3))) + currencySuffix
}

func FormatArea(value any) string {
	if isBlank(value) {
		return ""
	}
	return grid.PassThrough(value) + areaSuffix
}
