package newspilot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestParsePublished_ParsedTimeWins verifies the provider-parsed time takes
// priority over any string representation
func TestParsePublished_ParsedTimeWins(t *testing.T) {
	parsed := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(&parsed, "Wed, 11 Mar 2026 09:00:00 +0000", now)

	assert.Equal(t, parsed, got)
}

// TestParsePublished_RFC822Style verifies the RFC-822 style RSS date parse
func TestParsePublished_RFC822Style(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(nil, "Tue, 10 Mar 2026 08:30:00 +0000", now)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 8, got.Hour())
}

// TestParsePublished_RFC822NamedZone verifies the named-timezone variant
func TestParsePublished_RFC822NamedZone(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(nil, "Tue, 10 Mar 2026 08:30:00 GMT", now)

	assert.Equal(t, 10, got.Day())
}

// TestParsePublished_ISO8601 verifies the ISO-8601 string parse
func TestParsePublished_ISO8601(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(nil, "2026-03-10T08:30:00", now)

	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 8, got.Hour())
}

// TestParsePublished_FallbackToNow verifies an unparsable date falls back to
// now without raising
func TestParsePublished_FallbackToNow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(nil, "next Tuesday-ish", now)

	assert.Equal(t, now, got)
}

// TestParsePublished_EmptyString verifies a missing date falls back to now
func TestParsePublished_EmptyString(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ParsePublished(nil, "", now)

	assert.Equal(t, now, got)
}

// TestParseWindow verifies the period label to lookback mapping, including
// the default for unrecognized labels
func TestParseWindow(t *testing.T) {
	assert.Equal(t, 7, ParseWindow("Last 7 days"))
	assert.Equal(t, 14, ParseWindow("Last 14 days"))
	assert.Equal(t, 30, ParseWindow("Last 30 days"))
	assert.Equal(t, 7, ParseWindow("whenever"))
	assert.Equal(t, 7, ParseWindow(""))
}

// TestWithinWindow verifies the recency cutoff for all three window values
func TestWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, days := range []int{7, 14, 30} {
		inside := now.AddDate(0, 0, -days+1)
		outside := now.AddDate(0, 0, -days-1)

		assert.True(t, withinWindow(inside, now, days), "day %d inside", days)
		assert.False(t, withinWindow(outside, now, days), "day %d outside", days)
	}
}
