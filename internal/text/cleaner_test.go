package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps single blank lines", "Pricing\nRentals = $10\n\nMenu", "Pricing\nRentals = $10\n\nMenu"},
		{"collapses long blank runs", "A\n\n\n\n\nB", "A\n\nB"},
		{"collapses horizontal whitespace", "Chicken\t\tEntree   at  $25", "Chicken Entree at $25"},
		{"trims line ends", "Pricing   \nRentals = $10\t", "Pricing\nRentals = $10"},
		{"normalizes carriage returns", "Line one\r\nLine two\rLine three", "Line one\nLine two\nLine three"},
		{"strips control characters", "Cen\x00ter\x07pieces = TBD", "Centerpieces = TBD"},
		{"trims document edges", "\n\n  Event: Gala\n\n", "Event: Gala"},
		{"keeps single indent", "Menu\n    Salad", "Menu\n Salad"},
	}

	cleaner := NewCleaner(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleaner.Clean(tt.in))
		})
	}
}

func TestCleanDisabled(t *testing.T) {
	in := "A\t\tB\n\n\n\nC"
	assert.Equal(t, in, NewCleaner(false).Clean(in))
}
