package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)

	require.NoError(t, cmd.ParseFlags(nil))

	filters := filtersFromFlags()
	assert.Equal(t, 30, filters.MaxAgeDays)
	assert.Equal(t, int64(1000), filters.MinSubscribers)
	assert.Equal(t, int64(10000), filters.MinViews)
	assert.Equal(t, "US", filters.Country)
	assert.Equal(t, 10, filters.MaxChannels)
}

func TestFilterFlagsOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)

	require.NoError(t, cmd.ParseFlags([]string{
		"--max-age-days", "7",
		"--min-subscribers", "500",
		"--country", "BR",
		"--keywords", "music,gaming",
		"--max-channels", "3",
	}))

	filters := filtersFromFlags()
	assert.Equal(t, 7, filters.MaxAgeDays)
	assert.Equal(t, int64(500), filters.MinSubscribers)
	assert.Equal(t, "BR", filters.Country)
	assert.Equal(t, []string{"music", "gaming"}, filters.Keywords)
	assert.Equal(t, 3, filters.MaxChannels)
}
