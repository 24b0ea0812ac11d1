package jsonutil

import (
	"encoding/json"
	"strings"
)

// FlexibleStringList converts a json.RawMessage to a string slice, handling
// feeds that serialize list fields either as a JSON array or as a single
// comma-joined string (Shopify does both for product tags). Returns nil for
// null/empty input. Elements are trimmed; empty elements are dropped.
func FlexibleStringList(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanList(list)
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return cleanList(strings.Split(joined, ","))
	}

	return nil
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
