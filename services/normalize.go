package services

import (
	"encoding/json"
	"strings"
	"time"
)

// StringList decodes either a JSON array of strings or a single
// comma-separated string. The admin form submits committee members and
// keywords as one comma-joined field, while API clients send arrays.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = nil
		return nil
	}
	if trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = items
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = strings.Split(raw, ",")
	return nil
}

// NormalizeList trims every entry and drops the empty ones, preserving
// order. Duplicates are kept.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SplitAuthors turns the stored comma-joined author field back into the
// normalized list form.
func SplitAuthors(authorName string) []string {
	return NormalizeList(strings.Split(authorName, ","))
}

// JoinAuthors is the storage form: a single comma-separated string.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

// ParseDate accepts the ISO timestamps the form produces as well as plain
// calendar dates.
func ParseDate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(value))
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
