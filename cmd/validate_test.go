package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpoch(t *testing.T) {
	n, err := parseEpoch("--older-than", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = parseEpoch("--older-than", "1754000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1754000000), n)

	for _, bad := range []string{"tomorrow", "1.5", "-10"} {
		_, err := parseEpoch("--older-than", bad)
		require.Error(t, err, "input %q", bad)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "--older-than", vErr.Field)
	}
}

func TestParseDate(t *testing.T) {
	ts, err := parseDate("--start", "")
	require.NoError(t, err)
	assert.Nil(t, ts)

	ts, err = parseDate("--start", "2026-08-01")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *ts)

	for _, bad := range []string{"08/01/2026", "2026-13-01", "yesterday"} {
		_, err := parseDate("--start", bad)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "input %q", bad)
	}
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, validateDateRange(nil, nil))
	assert.NoError(t, validateDateRange(&end, &start))
	assert.NoError(t, validateDateRange(&start, &start))
	assert.Error(t, validateDateRange(&start, &end))
}

func TestWriteTable_UnknownFormat(t *testing.T) {
	err := writeTable(nil, "pdf", "", "")
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "format", vErr.Field)
}
