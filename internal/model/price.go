package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price is an amount of money in cents. Upstream data stores prices as
// free-text strings, so the parse contract is lenient: empty, null or
// unparsable input converts to zero rather than failing. Aggregations sum
// Price values directly instead of re-parsing strings per query.
type Price int64

// ParsePrice converts a decimal string to a Price. Malformed input yields
// zero, never an error.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return FromFloat(f)
}

// FromFloat converts a decimal amount to cents, rounding half away from zero.
func FromFloat(f float64) Price {
	if f < 0 {
		return Price(f*100 - 0.5)
	}
	return Price(f*100 + 0.5)
}

// Float returns the amount as a decimal number.
func (p Price) Float() float64 {
	return float64(p) / 100
}

// String formats the amount with two decimal places.
func (p Price) String() string {
	return strconv.FormatFloat(p.Float(), 'f', 2, 64)
}

// MarshalJSON emits the amount as a decimal string, matching the wire shape
// clients already consume.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a string or a bare number, leniently.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ParsePrice(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = FromFloat(f)
		return nil
	}
	*p = 0
	return nil
}

// Value stores the amount as a decimal for a NUMERIC(10,2) column.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan reads back NUMERIC, float or text columns, leniently.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case []byte:
		*p = ParsePrice(string(v))
	case string:
		*p = ParsePrice(v)
	case float64:
		*p = FromFloat(v)
	case int64:
		*p = Price(v * 100)
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}
