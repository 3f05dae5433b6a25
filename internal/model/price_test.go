package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Price
	}{
		{"plain integer", "10", Price(1000)},
		{"decimal", "5.5", Price(550)},
		{"two decimals", "25.99", Price(2599)},
		{"whitespace trimmed", "  12.00 ", Price(1200)},
		{"empty is zero", "", Price(0)},
		{"garbage is zero", "garbage", Price(0)},
		{"currency symbol is zero", "$10", Price(0)},
		{"negative parses", "-3", Price(-300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.input))
		})
	}
}

// Mixed valid and junk prices must sum to the valid subtotal: junk rows
// contribute zero instead of poisoning the aggregate.
func TestPrice_LenientRevenueSum(t *testing.T) {
	inputs := []string{"10", "bad", "", "5.5"}

	var total float64
	for _, in := range inputs {
		total += ParsePrice(in).Float()
	}
	assert.InDelta(t, 15.5, total, 1e-9)
}

func TestPrice_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ParsePrice("25.99"))
	require.NoError(t, err)
	assert.Equal(t, `"25.99"`, string(data))

	var p Price
	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &p))
	assert.Equal(t, Price(1250), p)

	// Numeric JSON is accepted too.
	require.NoError(t, json.Unmarshal([]byte(`7.25`), &p))
	assert.Equal(t, Price(725), p)

	// Junk degrades to zero like ParsePrice.
	require.NoError(t, json.Unmarshal([]byte(`"n/a"`), &p))
	assert.Equal(t, Price(0), p)
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "0.00", Price(0).String())
	assert.Equal(t, "10.00", ParsePrice("10").String())
	assert.Equal(t, "5.50", ParsePrice("5.5").String())
}
