package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexibleAmount decodes a JSON number or numeric string. Anything else decodes to NaN
// so callers can reject it as non-numeric instead of failing body parsing.
type FlexibleAmount float64

func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = FlexibleAmount(math.NaN())
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = FlexibleAmount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = FlexibleAmount(f)
			return nil
		}
	}

	*a = FlexibleAmount(math.NaN())
	return nil
}

// Float64 returns the decoded value.
func (a FlexibleAmount) Float64() float64 {
	return float64(a)
}
