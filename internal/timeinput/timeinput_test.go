package timeinput

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "10", NormalizeDigits("１０"))
	assert.Equal(t, "2026-01-11", NormalizeDigits("2026-01-11"))
	assert.Equal(t, "3日後", NormalizeDigits("３日後"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10分後", "in 10 minutes"},
		{"１０分後", "in 10 minutes"},
		{"1分後", "in 1 minute"},
		{"2時間後", "in 2 hours"},
		{"1時間後", "in 1 hour"},
		{"3日後", "in 3 days"},
		{"1日後", "in 1 day"},
		{" 10分後 ", "in 10 minutes"},
		{"10 分 後", "in 10 minutes"},
		{"tomorrow", "tomorrow"},
		{"2026-01-11 15:00", "2026-01-11 15:00"},
		{"分後", "分後"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	ref := time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC)

	t.Run("relative minutes", func(t *testing.T) {
		got, err := Parse("10分後", ref, 540)
		require.NoError(t, err)
		assert.True(t, got.Equal(ref.Add(10*time.Minute)))
	})

	t.Run("relative hours", func(t *testing.T) {
		got, err := Parse("in 2 hours", ref, 0)
		require.NoError(t, err)
		assert.True(t, got.Equal(ref.Add(2*time.Hour)))
	})

	t.Run("relative days", func(t *testing.T) {
		got, err := Parse("3日後", ref, 540)
		require.NoError(t, err)
		assert.True(t, got.Equal(ref.AddDate(0, 0, 3)))
	})

	t.Run("rfc3339 carries its own offset", func(t *testing.T) {
		got, err := Parse("2026-02-01T09:00:00+09:00", ref, 0)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("absolute wall time reads at the resolved offset", func(t *testing.T) {
		got, err := Parse("2026-02-01 09:00", ref, 540)
		require.NoError(t, err)
		// 09:00 at +09:00 is midnight UTC.
		assert.True(t, got.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("absolute with seconds", func(t *testing.T) {
		got, err := Parse("2026-02-01 09:00:30", ref, 0)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2026, 2, 1, 9, 0, 30, 0, time.UTC)))
	})

	t.Run("unrecognized input", func(t *testing.T) {
		_, err := Parse("next tuesday", ref, 540)
		assert.Error(t, err)
	})
}
