package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is an ordered set of labels. Its text form is the labels joined by
// commas; that form is used in CSV files and in persisted state.
type Tags []string

// NewTags trims each value, drops empties and keeps the first occurrence of
// duplicates.
func NewTags(values ...string) Tags {
	seen := make(map[string]struct{}, len(values))
	out := make(Tags, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParseTags splits comma-separated text.
func ParseTags(s string) Tags {
	return NewTags(strings.Split(s, ",")...)
}

func (t Tags) String() string {
	return strings.Join(t, ",")
}

// Contains reports whether label is one of the tags.
func (t Tags) Contains(label string) bool {
	for _, v := range t {
		if v == label {
			return true
		}
	}
	return false
}

// MarshalJSON writes the comma-joined text form.
func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the text form or a JSON array.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = ParseTags(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings: %w", err)
	}
	*t = NewTags(list...)
	return nil
}
