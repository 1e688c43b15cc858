package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsArrayAndString(t *testing.T) {
	var payload struct {
		Authors StringList `json:"authors"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"authors": ["A. Lee", " B. Kim ", ""]}`), &payload))
	fromArray := NormalizeList(payload.Authors)

	require.NoError(t, json.Unmarshal([]byte(`{"authors": "A. Lee, B. Kim , "}`), &payload))
	fromString := NormalizeList(payload.Authors)

	// Both representations normalize identically.
	assert.Equal(t, []string{"A. Lee", "B. Kim"}, fromArray)
	assert.Equal(t, fromArray, fromString)
}

func TestStringListNull(t *testing.T) {
	var payload struct {
		Keywords StringList `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"keywords": null}`), &payload))
	assert.Nil(t, payload.Keywords)
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"trims entries", []string{"  a ", "b  "}, []string{"a", "b"}},
		{"drops empties", []string{"", "  ", "x"}, []string{"x"}},
		{"keeps order and duplicates", []string{"b", "a", "b"}, []string{"b", "a", "b"}},
		{"all empty", []string{"", " "}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeList(tt.input))
		})
	}
}

func TestSplitJoinAuthorsRoundTrip(t *testing.T) {
	authors := []string{"A. Lee", "B. Kim", "C. Tan"}
	assert.Equal(t, authors, SplitAuthors(JoinAuthors(authors)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())

	d, err = ParseDate("2024-03-10T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	// ISO string with milliseconds, as produced by toISOString()
	d, err = ParseDate("2024-03-10T14:30:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}
