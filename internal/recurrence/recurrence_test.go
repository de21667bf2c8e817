package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayane2751/fairybot/internal/models"
)

func TestNextDate(t *testing.T) {
	tests := []struct {
		name    string
		instant string
		kind    models.Recurring
		want    string
		wantOK  bool
	}{
		{
			name:    "daily",
			instant: "2026-01-11T15:00:00.000Z",
			kind:    models.RecurringDaily,
			want:    "2026-01-12T15:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "weekly",
			instant: "2026-01-11T15:00:00.000Z",
			kind:    models.RecurringWeekly,
			want:    "2026-01-18T15:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "daily across month end",
			instant: "2026-01-31T09:30:00.000Z",
			kind:    models.RecurringDaily,
			want:    "2026-02-01T09:30:00.000Z",
			wantOK:  true,
		},
		{
			name:    "monthly",
			instant: "2026-03-15T08:00:00.000Z",
			kind:    models.RecurringMonthly,
			want:    "2026-04-15T08:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "monthly clamps jan 31 to leap february",
			instant: "2024-01-31T10:00:00.000Z",
			kind:    models.RecurringMonthly,
			want:    "2024-02-29T10:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "monthly clamps jan 31 to non-leap february",
			instant: "2026-01-31T10:00:00.000Z",
			kind:    models.RecurringMonthly,
			want:    "2026-02-28T10:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "monthly keeps clamped day going forward",
			instant: "2026-02-28T10:00:00.000Z",
			kind:    models.RecurringMonthly,
			want:    "2026-03-28T10:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "monthly december wraps the year",
			instant: "2025-12-31T23:00:00.000Z",
			kind:    models.RecurringMonthly,
			want:    "2026-01-31T23:00:00.000Z",
			wantOK:  true,
		},
		{
			name:    "unrecognized kind",
			instant: "2026-01-11T15:00:00.000Z",
			kind:    models.Recurring("yearly"),
			wantOK:  false,
		},
		{
			name:    "off is not a recurrence unit",
			instant: "2026-01-11T15:00:00.000Z",
			kind:    models.RecurringOff,
			wantOK:  false,
		},
		{
			name:    "unparseable instant",
			instant: "not-a-time",
			kind:    models.RecurringDaily,
			wantOK:  false,
		},
		{
			name:   "empty instant",
			kind:   models.RecurringDaily,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextDate(tt.instant, tt.kind)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
