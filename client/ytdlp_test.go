package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstLineFields(t *testing.T) {
	assert.Nil(t, firstLineFields(""))
	assert.Nil(t, firstLineFields("  \n "))

	parts := firstLineFields("UCabc|Title|uploader\nsecond|line")
	assert.Equal(t, []string{"UCabc", "Title", "uploader"}, parts)
}

func TestFieldNormalizesNA(t *testing.T) {
	parts := []string{"UCabc", "NA", " spaced ", "None"}

	assert.Equal(t, "UCabc", field(parts, 0))
	assert.Equal(t, "", field(parts, 1))
	assert.Equal(t, "spaced", field(parts, 2))
	assert.Equal(t, "", field(parts, 3))
	assert.Equal(t, "", field(parts, 10))
}

func TestNumField(t *testing.T) {
	parts := []string{"1234", "NA", "1.2K", "not-a-number", "12.7"}

	assert.Equal(t, int64(1234), numField(parts, 0))
	assert.Equal(t, int64(0), numField(parts, 1))
	assert.Equal(t, int64(1200), numField(parts, 2))
	assert.Equal(t, int64(0), numField(parts, 3))
	assert.Equal(t, int64(12), numField(parts, 4))
}

func TestDateField(t *testing.T) {
	parts := []string{"20240315", "NA", "bogus"}

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), dateField(parts, 0))
	assert.True(t, dateField(parts, 1).IsZero())
	assert.True(t, dateField(parts, 2).IsZero())
}

func TestContainsAuthMarker(t *testing.T) {
	assert.True(t, containsAuthMarker("ERROR: Sign in to confirm you're not a bot"))
	assert.True(t, containsAuthMarker("authentication required"))
	assert.False(t, containsAuthMarker("ERROR: video unavailable"))
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"PT1H2M3S", 3723},
		{"PT15M", 900},
		{"PT45S", 45},
		{"P1DT1S", 86401},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseISODuration(tt.input), tt.input)
	}
}
