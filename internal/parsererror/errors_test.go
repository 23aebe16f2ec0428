package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("bare \" in non-quoted field")
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "with line",
			err:      &ParseError{Source: "income.csv", Line: 4, Err: cause},
			expected: "income.csv: failed to parse CSV at line 4: bare \" in non-quoted field",
		},
		{
			name:     "without line",
			err:      &ParseError{Source: "stdin", Err: cause},
			expected: "stdin: failed to parse CSV: bare \" in non-quoted field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errors.Is(tt.err, cause))
		})
	}
}

func TestFetchError(t *testing.T) {
	withStatus := &FetchError{URL: "https://example.test/a.csv", StatusCode: 404}
	assert.Equal(t, "fetch https://example.test/a.csv: unexpected status 404", withStatus.Error())

	cause := errors.New("connection refused")
	network := &FetchError{URL: "https://example.test/a.csv", Err: cause}
	assert.Contains(t, network.Error(), "connection refused")
	assert.ErrorIs(t, network, cause)

	var target *FetchError
	wrapped := errors.Join(errors.New("load all"), network)
	assert.True(t, errors.As(wrapped, &target))
}

func TestUnknownSchemaError(t *testing.T) {
	err := &UnknownSchemaError{Source: "upload.csv", Headers: []string{"Foo", "Bar"}}
	assert.Equal(t, "upload.csv: unrecognized CSV headers [Foo, Bar]", err.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "page size", Reason: "must be one of 25, 50, 100, all"}
	assert.Equal(t, "invalid page size: must be one of 25, 50, 100, all", err.Error())
}
