package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ProgressMap maps a challenge id to its progress value, stored as jsonb.
type ProgressMap map[string]float64

// Value implements the driver.Valuer interface
func (p ProgressMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]float64(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *ProgressMap) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*p = ProgressMap{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for ProgressMap")
	}
	m := map[string]float64{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Clone returns an independent copy.
func (p ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
