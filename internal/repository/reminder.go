// Package repository implements the domain operations over the reminders
// sheet. The store has no query predicates, so every lookup is a column-span
// scan filtered here.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayane2751/fairybot/internal/models"
	"github.com/ayane2751/fairybot/internal/reminderkey"
	"github.com/ayane2751/fairybot/internal/sheets"
)

// MaxKeyAttempts bounds unique-key generation; collisions are rare but the
// alphabet is short enough that they are not impossible.
const MaxKeyAttempts = 5

// ErrKeyGeneration is returned when every key draw collided.
var ErrKeyGeneration = errors.New("failed to generate unique reminder key")

// Field is one column update. Updates are ordered: callers put the status
// column last, so that a crash mid-batch leaves a row that is still
// claimable instead of one that looks finalized with stale companion fields.
type Field struct {
	Name  string
	Value string
}

// Target carries the scope-appropriate identifiers for ListByScope.
type Target struct {
	UserID    string
	ChannelID string
	GuildID   string
}

// DeleteOutcome distinguishes "deleted now" from "was already deleted" so
// callers can answer repeat deletes idempotently.
type DeleteOutcome struct {
	Found          bool
	AlreadyDeleted bool
	RowIndex       int
}

type ReminderRepository struct {
	store           sheets.RowStore
	maxRows         int
	stalenessWindow time.Duration
}

func NewReminderRepository(store sheets.RowStore, maxRows int, stalenessWindow time.Duration) *ReminderRepository {
	return &ReminderRepository{
		store:           store,
		maxRows:         maxRows,
		stalenessWindow: stalenessWindow,
	}
}

// header re-reads the live header. Column positions are derived fresh for
// every logical operation; reordering columns in the sheet must not break
// correctness.
func (r *ReminderRepository) header(ctx context.Context) ([]string, sheets.HeaderMap, error) {
	header, err := r.store.Header(ctx)
	if err != nil {
		return nil, nil, err
	}
	return header, sheets.BuildHeaderMap(header), nil
}

// scan fetches all data rows restricted to the named columns and returns
// them with the matching header slice. The row ceiling is a fail-fast guard
// against unbounded scans, not a truncation.
func (r *ReminderRepository) scan(ctx context.Context, header []string, hm sheets.HeaderMap, columns ...string) ([][]string, []string, error) {
	span, err := hm.SpanFor(columns...)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.store.ReadRows(ctx, span)
	if err != nil {
		return nil, nil, err
	}
	if r.maxRows > 0 && len(rows) > r.maxRows {
		return nil, nil, &sheets.RowStoreError{
			Op:  "scan",
			Err: fmt.Errorf("sheet has %d data rows, limit is %d", len(rows), r.maxRows),
		}
	}
	return rows, sheets.Slice(header, span), nil
}

func cellIn(headerSlice, row []string, name string) string {
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

// FindByKey locates a non-deleted reminder by key within a scope. The match
// is found on a narrow scan, then the detail slice is re-fetched for that
// row; a deletion racing between scan and fetch reads back as deleted and
// returns nil.
func (r *ReminderRepository) FindByKey(ctx context.Context, key string, scope models.Scope) (*models.Reminder, error) {
	header, hm, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	rows, headerSlice, err := r.scan(ctx, header, hm,
		models.ColID, models.ColKey, models.ColScope, models.ColStatus)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if cellIn(headerSlice, row, models.ColStatus) == string(models.StatusDeleted) {
			continue
		}
		if cellIn(headerSlice, row, models.ColKey) != key ||
			cellIn(headerSlice, row, models.ColScope) != string(scope) {
			continue
		}

		rowIndex := i + 2
		span, err := hm.SpanFor(
			models.ColID, models.ColKey, models.ColContent, models.ColScope,
			models.ColNotifyTimeUTC, models.ColRecurring, models.ColStatus, models.ColChannelID)
		if err != nil {
			return nil, err
		}
		detail, err := r.store.ReadRow(ctx, rowIndex, span)
		if err != nil {
			return nil, err
		}
		reminder := models.FromRow(sheets.Slice(header, span), detail, rowIndex)
		if reminder.Status == models.StatusDeleted {
			return nil, nil
		}
		return reminder, nil
	}

	return nil, nil
}

// FindByID locates a reminder by its unique id. Deleted rows are skipped
// unless includeDeleted is set.
func (r *ReminderRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*models.Reminder, error) {
	header, hm, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	rows, headerSlice, err := r.scan(ctx, header, hm,
		models.ColID, models.ColKey, models.ColScope, models.ColStatus, models.ColChannelID)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if cellIn(headerSlice, row, models.ColID) != id {
			continue
		}
		status := cellIn(headerSlice, row, models.ColStatus)
		if !includeDeleted && status == string(models.StatusDeleted) {
			return nil, nil
		}
		return models.FromRow(headerSlice, row, i+2), nil
	}

	return nil, nil
}

// findRow resolves the current row index and status for an id.
func (r *ReminderRepository) findRow(ctx context.Context, header []string, hm sheets.HeaderMap, id string, includeDeleted bool) (int, models.Status, bool, error) {
	rows, headerSlice, err := r.scan(ctx, header, hm, models.ColID, models.ColStatus)
	if err != nil {
		return 0, "", false, err
	}
	for i, row := range rows {
		if cellIn(headerSlice, row, models.ColID) != id {
			continue
		}
		status := models.Status(cellIn(headerSlice, row, models.ColStatus))
		if !includeDeleted && status == models.StatusDeleted {
			return 0, "", false, nil
		}
		return i + 2, status, true, nil
	}
	return 0, "", false, nil
}

// Insert appends the reminder as a new row in live header order. Key+scope
// uniqueness has no server-side constraint; the caller verifies it first.
func (r *ReminderRepository) Insert(ctx context.Context, reminder *models.Reminder) error {
	header, _, err := r.header(ctx)
	if err != nil {
		return err
	}
	return r.store.AppendRow(ctx, reminder.Row(header))
}

// ListByScope returns the non-deleted reminders of a scope whose
// scope-appropriate target identifier matches.
func (r *ReminderRepository) ListByScope(ctx context.Context, scope models.Scope, target Target) ([]*models.Reminder, error) {
	header, hm, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	rows, headerSlice, err := r.scan(ctx, header, hm,
		models.ColKey, models.ColContent, models.ColNotifyTimeUTC, models.ColScope,
		models.ColUserID, models.ColChannelID, models.ColGuildID, models.ColStatus)
	if err != nil {
		return nil, err
	}

	var reminders []*models.Reminder
	for i, row := range rows {
		reminder := models.FromRow(headerSlice, row, i+2)
		if reminder.Status == models.StatusDeleted || reminder.Scope != scope {
			continue
		}
		switch scope {
		case models.ScopeUser:
			if reminder.UserID != target.UserID {
				continue
			}
		case models.ScopeChannel:
			if reminder.ChannelID != target.ChannelID {
				continue
			}
		case models.ScopeServer:
			if reminder.GuildID != target.GuildID {
				continue
			}
		default:
			continue
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

// ListDue returns the reminders eligible for delivery at now: pending rows
// whose notify time has passed, and sending rows whose claim has gone stale.
// A sending row with a missing or unparseable last_sent is included rather
// than silently dropped, so a half-written claim cannot strand a reminder.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	header, hm, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	rows, headerSlice, err := r.scan(ctx, header, hm,
		models.ColID, models.ColContent, models.ColScope,
		models.ColUserID, models.ColChannelID, models.ColGuildID,
		models.ColNotifyTimeUTC, models.ColRecurring, models.ColRetryCount,
		models.ColStatus, models.ColLastSent)
	if err != nil {
		return nil, err
	}

	var due []*models.Reminder
	for i, row := range rows {
		reminder := models.FromRow(headerSlice, row, i+2)
		if reminder.Status != models.StatusPending && reminder.Status != models.StatusSending {
			continue
		}
		notifyTime, ok := reminder.NotifyTime()
		if !ok {
			continue
		}
		if reminder.Status == models.StatusSending {
			lastSent, ok := reminder.LastSentTime()
			if !ok {
				due = append(due, reminder)
				continue
			}
			if now.Sub(lastSent) < r.stalenessWindow {
				continue
			}
		}
		if !notifyTime.After(now) {
			due = append(due, reminder)
		}
	}
	return due, nil
}

// UpdateFields writes the given fields to the reminder's row, one cell per
// field in the order given. A row-index hint is verified by re-reading that
// row's id cell first; on mismatch the hint is discarded and a full scan
// resolves the current index. An id field and unrecognized empty field sets
// are skipped; writing nothing is a no-op.
func (r *ReminderRepository) UpdateFields(ctx context.Context, id string, fields []Field, rowIndexHint int) error {
	header, hm, err := r.header(ctx)
	if err != nil {
		return err
	}
	idCol, err := hm.Index(models.ColID)
	if err != nil {
		return err
	}

	rowIndex := rowIndexHint
	if rowIndex > 0 {
		cell, err := r.store.ReadRow(ctx, rowIndex, sheets.Span{Start: idCol, End: idCol})
		if err != nil {
			return err
		}
		if len(cell) == 0 || cell[0] != id {
			rowIndex = 0
		}
	}

	if rowIndex == 0 {
		found, _, ok, err := r.findRow(ctx, header, hm, id, true)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reminder %q not found", id)
		}
		rowIndex = found
	}

	var cells []sheets.Cell
	for _, field := range fields {
		if field.Name == models.ColID {
			continue
		}
		col, err := hm.Index(field.Name)
		if err != nil {
			return err
		}
		cells = append(cells, sheets.Cell{Row: rowIndex, Col: col, Value: field.Value})
	}
	if len(cells) == 0 {
		return nil
	}
	return r.store.WriteCells(ctx, cells)
}

// SoftDelete tags the reminder's row as deleted. Rows are never physically
// removed.
func (r *ReminderRepository) SoftDelete(ctx context.Context, id string) (DeleteOutcome, error) {
	header, hm, err := r.header(ctx)
	if err != nil {
		return DeleteOutcome{}, err
	}
	rowIndex, status, found, err := r.findRow(ctx, header, hm, id, true)
	if err != nil {
		return DeleteOutcome{}, err
	}
	if !found {
		return DeleteOutcome{}, nil
	}
	if status == models.StatusDeleted {
		return DeleteOutcome{Found: true, AlreadyDeleted: true, RowIndex: rowIndex}, nil
	}
	err = r.UpdateFields(ctx, id,
		[]Field{{Name: models.ColStatus, Value: string(models.StatusDeleted)}}, rowIndex)
	if err != nil {
		return DeleteOutcome{}, err
	}
	return DeleteOutcome{Found: true, RowIndex: rowIndex}, nil
}

// GenerateUniqueKey draws keys until one is unused within the scope, up to
// MaxKeyAttempts.
func (r *ReminderRepository) GenerateUniqueKey(ctx context.Context, scope models.Scope) (string, error) {
	for attempt := 0; attempt < MaxKeyAttempts; attempt++ {
		key, err := reminderkey.Generate()
		if err != nil {
			return "", err
		}
		existing, err := r.FindByKey(ctx, key, scope)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return key, nil
		}
	}
	return "", ErrKeyGeneration
}
