package domain

import "time"

// Setting is the core record technicians look up: a machine configuration
// keyed by SKU, Leg Number, and Case Size. Beyond the fixed columns, every
// attribute lives in Data, an open mapping whose valid keys are defined by
// the admin-editable Field catalog. Stale keys from deleted fields are
// tolerated, not purged.
type Setting struct {
	ID          string         `json:"id"`
	SKU         string         `json:"sku"`
	LegNumber   string         `json:"legNumber"`
	CaseSize    string         `json:"caseSize"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Data        map[string]any `json:"data"`
}

// Value returns the dynamic attribute stored under key, or nil when absent.
func (s Setting) Value(key string) any {
	if s.Data == nil {
		return nil
	}
	return s.Data[key]
}

// Clone returns a deep copy so callers can never mutate store-owned state.
func (s Setting) Clone() Setting {
	out := s
	if s.Data != nil {
		out.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	return out
}
