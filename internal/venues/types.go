package venues

import (
	"encoding/json"
	"strconv"
)

// flexFloat decodes a field that upstream renders as a JSON number, a quoted
// numeric string, or null. Malformed values coerce to absent instead of
// failing the record.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}
	if string(data) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat{Value: num, Valid: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexFloat{Value: v, Valid: true}
	}
	return nil
}

// Or returns the value, or fallback when absent.
func (f flexFloat) Or(fallback float64) float64 {
	if !f.Valid {
		return fallback
	}
	return f.Value
}

// outcomePrices decodes Polymarket's outcome price list, which arrives as a
// JSON array of numbers or numeric strings, OR as a single string containing
// a JSON-encoded array, OR as null. The variants collapse into one typed
// slice; unparseable entries become absent.
type outcomePrices []flexFloat

func (o *outcomePrices) UnmarshalJSON(data []byte) error {
	*o = nil
	if string(data) == "null" {
		return nil
	}

	var direct []flexFloat
	if err := json.Unmarshal(data, &direct); err == nil {
		*o = direct
		return nil
	}

	// String-wrapped array: unwrap once and decode the inner document.
	var wrapped string
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil
	}
	var inner []flexFloat
	if err := json.Unmarshal([]byte(wrapped), &inner); err == nil {
		*o = inner
	}
	return nil
}

// YesNo returns the first two prices as (yes, no). Missing entries are
// reported invalid.
func (o outcomePrices) YesNo() (yes, no flexFloat) {
	if len(o) > 0 {
		yes = o[0]
	}
	if len(o) > 1 {
		no = o[1]
	}
	return yes, no
}
