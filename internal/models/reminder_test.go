package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	t.Run("with milliseconds", func(t *testing.T) {
		got, ok := ParseTime("2026-01-11T15:00:00.000Z")
		assert.True(t, ok)
		assert.True(t, got.Equal(time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC)))
	})

	t.Run("without fractional seconds", func(t *testing.T) {
		got, ok := ParseTime("2026-01-11T15:00:00Z")
		assert.True(t, ok)
		assert.True(t, got.Equal(time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC)))
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParseTime("")
		assert.False(t, ok)
	})

	t.Run("malformed", func(t *testing.T) {
		_, ok := ParseTime("2026/01/11 15:00")
		assert.False(t, ok)
	})
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("", 9*3600)
	assert.Equal(t, "2026-01-11T15:00:00.000Z",
		FormatTime(time.Date(2026, 1, 12, 0, 0, 0, 0, loc)))
}

func TestRetryCountValue(t *testing.T) {
	tests := []struct {
		cell string
		want int
	}{
		{"0", 0},
		{"2", 2},
		{"", 0},
		{"NaN", 0},
		{"-1", 0},
		{"2.5", 0},
	}
	for _, tt := range tests {
		r := &Reminder{RetryCount: tt.cell}
		assert.Equal(t, tt.want, r.RetryCountValue(), "cell %q", tt.cell)
	}
}

func TestIsRecurring(t *testing.T) {
	assert.False(t, (&Reminder{}).IsRecurring())
	assert.False(t, (&Reminder{Recurring: RecurringOff}).IsRecurring())
	assert.True(t, (&Reminder{Recurring: RecurringDaily}).IsRecurring())
	assert.True(t, (&Reminder{Recurring: RecurringMonthly}).IsRecurring())
}

func TestFromRow(t *testing.T) {
	headerSlice := []string{ColID, ColKey, ColStatus, ColRetryCount}

	t.Run("full row", func(t *testing.T) {
		r := FromRow(headerSlice, []string{"id-1", "ABCD2345", "pending", "1"}, 5)
		assert.Equal(t, "id-1", r.ID)
		assert.Equal(t, "ABCD2345", r.Key)
		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, 1, r.RetryCountValue())
		assert.Equal(t, 5, r.RowIndex)
	})

	t.Run("short row reads trailing cells as empty", func(t *testing.T) {
		r := FromRow(headerSlice, []string{"id-1", "ABCD2345"}, 2)
		assert.Equal(t, Status(""), r.Status)
		assert.Equal(t, 0, r.RetryCountValue())
	})
}

func TestRowFollowsHeaderOrder(t *testing.T) {
	r := &Reminder{ID: "id-1", Key: "ABCD2345", Status: StatusPending, Content: "水やり"}

	row := r.Row([]string{ColStatus, ColID, ColContent, ColKey})
	assert.Equal(t, []string{"pending", "id-1", "水やり", "ABCD2345"}, row)

	full := r.Row(Schema)
	assert.Len(t, full, len(Schema))
	assert.Equal(t, "id-1", full[0])
}

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeUser.Valid())
	assert.True(t, ScopeChannel.Valid())
	assert.True(t, ScopeServer.Valid())
	assert.False(t, Scope("global").Valid())
	assert.False(t, Scope("").Valid())
}
