package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowISOFixedWidth(t *testing.T) {
	s := NowISO()
	require.Len(t, s, len("2006-01-02T15:04:05.000Z"))
	assert.True(t, strings.HasSuffix(s, "Z"))

	_, ok := ParseInstant(s)
	assert.True(t, ok, "NowISO output must round-trip through ParseInstant")
}

func TestParseInstant(t *testing.T) {
	t.Run("rfc3339 with millis", func(t *testing.T) {
		got, ok := ParseInstant("2024-01-15T10:30:00.000Z")
		require.True(t, ok)
		assert.Equal(t, 2024, got.Year())
	})
	t.Run("nanosecond precision accepted", func(t *testing.T) {
		_, ok := ParseInstant("2024-01-15T10:30:00.123456789Z")
		assert.True(t, ok)
	})
	t.Run("empty is no timestamp", func(t *testing.T) {
		_, ok := ParseInstant("")
		assert.False(t, ok)
	})
	t.Run("malformed is no timestamp", func(t *testing.T) {
		_, ok := ParseInstant("yesterday")
		assert.False(t, ok)
	})
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusSkipped} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("paused").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Completed", StatusCompleted.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Pending", Status("bogus").Label())
}
