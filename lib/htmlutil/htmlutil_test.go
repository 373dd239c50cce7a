package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Vracar", expected: "Vracar"},
		{input: "", expected: ""},
		{
			input:    `<a href="https://example.com/stan/1" target="_blank" class="btn btn-sm btn-primary">View</a>`,
			expected: "https://example.com/stan/1",
		},
		{input: "<b>  bold \n  text </b>", expected: "bold text"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, PlainText(row.input))
	}
}
