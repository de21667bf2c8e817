package models

import (
	"strconv"
	"time"
)

type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeChannel Scope = "channel"
	ScopeServer  Scope = "server"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeUser, ScopeChannel, ScopeServer:
		return true
	}
	return false
}

type Status string

const (
	StatusPending Status = "pending"
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusDeleted Status = "deleted"
)

type Recurring string

const (
	RecurringOff     Recurring = "off"
	RecurringDaily   Recurring = "daily"
	RecurringWeekly  Recurring = "weekly"
	RecurringMonthly Recurring = "monthly"
)

// Column names, as defined by the sheet header.
const (
	ColID            = "id"
	ColKey           = "key"
	ColContent       = "content"
	ColScope         = "scope"
	ColGuildID       = "guild_id"
	ColChannelID     = "channel_id"
	ColUserID        = "user_id"
	ColNotifyTimeUTC = "notify_time_utc"
	ColTimezone      = "timezone"
	ColRecurring     = "recurring"
	ColVisibility    = "visibility"
	ColCreatedBy     = "created_by"
	ColCreatedAt     = "created_at"
	ColStatus        = "status"
	ColLastSent      = "last_sent"
	ColRetryCount    = "retry_count"
	ColMetadata      = "metadata"
)

// Schema is the canonical column order for a freshly created sheet. The live
// header is still authoritative at runtime; rows are always mapped through it.
var Schema = []string{
	ColID, ColKey, ColContent, ColScope, ColGuildID, ColChannelID, ColUserID,
	ColNotifyTimeUTC, ColTimezone, ColRecurring, ColVisibility, ColCreatedBy,
	ColCreatedAt, ColStatus, ColLastSent, ColRetryCount, ColMetadata,
}

// Reminder is one row of the reminders sheet. Cell values stay strings; the
// typed accessors parse on demand so a malformed cell never aborts a scan.
type Reminder struct {
	ID            string
	Key           string
	Content       string
	Scope         Scope
	GuildID       string
	ChannelID     string
	UserID        string
	NotifyTimeUTC string
	Timezone      string
	Recurring     Recurring
	Visibility    string
	CreatedBy     string
	CreatedAt     string
	Status        Status
	LastSent      string
	RetryCount    string
	Metadata      string

	// RowIndex is the 1-based sheet row this reminder was read from. Zero
	// means unknown; it is a hint, not a durable reference.
	RowIndex int
}

func (r *Reminder) IsRecurring() bool {
	return r.Recurring != "" && r.Recurring != RecurringOff
}

// NotifyTime parses notify_time_utc. ok is false for empty or malformed cells.
func (r *Reminder) NotifyTime() (time.Time, bool) {
	return ParseTime(r.NotifyTimeUTC)
}

func (r *Reminder) LastSentTime() (time.Time, bool) {
	return ParseTime(r.LastSent)
}

// RetryCountValue parses retry_count leniently; anything non-numeric counts
// as zero so a corrupted cell cannot wedge the retry machinery.
func (r *Reminder) RetryCountValue() int {
	n, err := strconv.Atoi(r.RetryCount)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseTime parses an RFC 3339 timestamp cell, with or without fractional
// seconds (the sheet holds values like 2026-01-11T15:00:00.000Z).
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTime renders a timestamp the way the sheet stores them.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// FromRow maps a row slice onto a Reminder using the header slice that
// produced it. Cells beyond the end of the row read as empty strings.
func FromRow(headerSlice, row []string, rowIndex int) *Reminder {
	cell := func(name string) string {
		for i, col := range headerSlice {
			if col == name {
				if i < len(row) {
					return row[i]
				}
				return ""
			}
		}
		return ""
	}

	return &Reminder{
		ID:            cell(ColID),
		Key:           cell(ColKey),
		Content:       cell(ColContent),
		Scope:         Scope(cell(ColScope)),
		GuildID:       cell(ColGuildID),
		ChannelID:     cell(ColChannelID),
		UserID:        cell(ColUserID),
		NotifyTimeUTC: cell(ColNotifyTimeUTC),
		Timezone:      cell(ColTimezone),
		Recurring:     Recurring(cell(ColRecurring)),
		Visibility:    cell(ColVisibility),
		CreatedBy:     cell(ColCreatedBy),
		CreatedAt:     cell(ColCreatedAt),
		Status:        Status(cell(ColStatus)),
		LastSent:      cell(ColLastSent),
		RetryCount:    cell(ColRetryCount),
		Metadata:      cell(ColMetadata),
		RowIndex:      rowIndex,
	}
}

// Row renders the reminder as a full row in the given header order. Columns
// the reminder does not know about come out as empty strings.
func (r *Reminder) Row(header []string) []string {
	values := map[string]string{
		ColID:            r.ID,
		ColKey:           r.Key,
		ColContent:       r.Content,
		ColScope:         string(r.Scope),
		ColGuildID:       r.GuildID,
		ColChannelID:     r.ChannelID,
		ColUserID:        r.UserID,
		ColNotifyTimeUTC: r.NotifyTimeUTC,
		ColTimezone:      r.Timezone,
		ColRecurring:     string(r.Recurring),
		ColVisibility:    r.Visibility,
		ColCreatedBy:     r.CreatedBy,
		ColCreatedAt:     r.CreatedAt,
		ColStatus:        string(r.Status),
		ColLastSent:      r.LastSent,
		ColRetryCount:    r.RetryCount,
		ColMetadata:      r.Metadata,
	}

	row := make([]string, len(header))
	for i, name := range header {
		row[i] = values[name]
	}
	return row
}
