package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"+09:00", 540, true},
		{"-05:30", -330, true},
		{"+0930", 570, true},
		{"-0500", -300, true},
		{"+9", 540, true},
		{"-2", -120, true},
		{"UTC+9", 540, true},
		{"utc+09:00", 540, true},
		{"GMT-2", -120, true},
		{"+14:00", 840, true},
		{"+14:59", 899, true}, // per-component bounds, not a ±14:00 total
		{"-14:30", -870, true},
		{"+00:00", 0, true},
		{"+15:00", 0, false},
		{"+09:60", 0, false},
		{"9", 0, false},
		{"JST", 0, false},
		{"Asia/Tokyo", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOffset(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	ref := time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC)

	t.Run("explicit offset", func(t *testing.T) {
		res, err := Resolve("+08:00", "", ref)
		require.NoError(t, err)
		assert.Equal(t, 480, res.OffsetMinutes)
		assert.Equal(t, SourceOffset, res.Source)
		assert.Equal(t, "+08:00", res.Label)
	})

	t.Run("abbreviation", func(t *testing.T) {
		res, err := Resolve("jst", "", ref)
		require.NoError(t, err)
		assert.Equal(t, 540, res.OffsetMinutes)
		assert.Equal(t, SourceAbbr, res.Source)
		assert.Equal(t, "JST", res.Label)
	})

	t.Run("iana zone", func(t *testing.T) {
		res, err := Resolve("Asia/Tokyo", "", ref)
		require.NoError(t, err)
		assert.Equal(t, 540, res.OffsetMinutes)
		assert.Equal(t, SourceIANA, res.Source)
	})

	t.Run("iana zone uses the offset at the reference instant", func(t *testing.T) {
		winter, err := Resolve("America/New_York", "", time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, -300, winter.OffsetMinutes)

		summer, err := Resolve("America/New_York", "", time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, -240, summer.OffsetMinutes)
	})

	t.Run("empty input falls back to the configured default", func(t *testing.T) {
		res, err := Resolve("", "UTC", ref)
		require.NoError(t, err)
		assert.Equal(t, 0, res.OffsetMinutes)
		assert.Equal(t, SourceAbbr, res.Source)
	})

	t.Run("empty input and empty default fall back to Asia/Tokyo", func(t *testing.T) {
		res, err := Resolve("", "", ref)
		require.NoError(t, err)
		assert.Equal(t, DefaultZone, res.Label)
		assert.Equal(t, 540, res.OffsetMinutes)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := Resolve("Middle/Nowhere", "", ref)
		assert.ErrorIs(t, err, ErrUnknownZone)
	})
}

func TestAdjustForZone(t *testing.T) {
	t.Run("same offset leaves the instant alone", func(t *testing.T) {
		parsed := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
		adjusted := AdjustForZone(parsed, "Asia/Tokyo", 540)
		assert.True(t, adjusted.Equal(parsed))
	})

	t.Run("crossing a dst transition shifts by the difference", func(t *testing.T) {
		// Reference is in EST (-05:00); the parsed instant lands after the
		// spring-forward, where New York is EDT (-04:00).
		parsed := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
		adjusted := AdjustForZone(parsed, "America/New_York", -300)
		assert.True(t, adjusted.Equal(parsed.Add(-time.Hour)))
	})

	t.Run("unknown zone label is a no-op", func(t *testing.T) {
		parsed := time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC)
		adjusted := AdjustForZone(parsed, "Middle/Nowhere", -300)
		assert.True(t, adjusted.Equal(parsed))
	})
}
