package api

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Envelope is the response shape shared by every backend endpoint.
type Envelope[T any] struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code,omitempty"`
	Data    T           `json:"data"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	LastPage     int  `json:"last_page"`
	PerPage      int  `json:"per_page"`
	Total        int  `json:"total"`
	From         *int `json:"from"`
	To           *int `json:"to"`
	HasMorePages bool `json:"has_more_pages"`
}

// Page is the data payload of list endpoints.
type Page[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// GeneralField holds messages that are not tied to a field, e.g. when the
// backend sends `"errors": ["has students"]`.
const GeneralField = "general"

// UnmarshalJSON never fails on well-formed JSON. Objects map fields to their
// messages, lists and scalars land under GeneralField, nested values are
// flattened and empty values decode to nil.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		msgs := messages(data)
		if len(msgs) == 0 {
			*f = nil
			return nil
		}
		*f = FieldErrors{GeneralField: msgs}
		return nil
	}
	if len(raw) == 0 {
		*f = nil
		return nil
	}
	out := make(FieldErrors, len(raw))
	for field, value := range raw {
		if msgs := messages(value); len(msgs) > 0 {
			out[field] = msgs
		}
	}
	*f = out
	return nil
}

func messages(value json.RawMessage) []string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	var one string
	if err := json.Unmarshal(value, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []json.RawMessage
	if err := json.Unmarshal(value, &many); err == nil {
		var out []string
		for _, item := range many {
			out = append(out, messages(item)...)
		}
		return out
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(value, &nested); err == nil {
		keys := make([]string, 0, len(nested))
		for key := range nested {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var out []string
		for _, key := range keys {
			out = append(out, messages(nested[key])...)
		}
		return out
	}
	return []string{string(value)}
}
