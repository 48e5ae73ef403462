package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Update is a partial mutation of a job record. Nil fields are left
// untouched; AppendOutputs extends the stored output list rather than
// replacing it.
type Update struct {
	Status        *Status
	Progress      *int
	Error         *string
	AppendOutputs []OutputDescriptor
}

// Empty reports whether the update would change nothing but updated_at.
func (u Update) Empty() bool {
	return u.Status == nil && u.Progress == nil && u.Error == nil && len(u.AppendOutputs) == 0
}

// StatusOf wraps a status value for use in an Update.
func StatusOf(status Status) *Status { return &status }

// ProgressOf wraps a progress value for use in an Update.
func ProgressOf(progress int) *int { return &progress }

// ErrorOf wraps an error message for use in an Update.
func ErrorOf(message string) *string { return &message }

// Apply persists a partial update to one job record atomically. Progress is
// clamped to [0,100]. The whole mutation, including the read-modify-write of
// the output list, runs in a single transaction so readers only ever observe
// complete snapshots.
func (s *Store) Apply(ctx context.Context, id string, update Update) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("job id required")
	}
	if update.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if update.Status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Progress != nil {
		assignments = append(assignments, "progress = ?")
		args = append(args, clampProgress(*update.Progress))
	}
	if update.Error != nil {
		assignments = append(assignments, "error_message = ?")
		args = append(args, *update.Error)
	}

	if len(update.AppendOutputs) > 0 {
		var outputsJSON sql.NullString
		row := tx.QueryRowContext(ctx, `SELECT outputs_json FROM jobs WHERE id = ?`, id)
		if err := row.Scan(&outputsJSON); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("job %s not found", id)
			}
			return fmt.Errorf("read outputs: %w", err)
		}
		var outputs []OutputDescriptor
		if outputsJSON.Valid && outputsJSON.String != "" {
			if err := json.Unmarshal([]byte(outputsJSON.String), &outputs); err != nil {
				return fmt.Errorf("unmarshal outputs: %w", err)
			}
		}
		outputs = append(outputs, update.AppendOutputs...)
		merged, err := json.Marshal(outputs)
		if err != nil {
			return fmt.Errorf("marshal outputs: %w", err)
		}
		assignments = append(assignments, "outputs_json = ?")
		args = append(args, string(merged))
	}

	assignments = append(assignments, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	args = append(args, id)

	query := `UPDATE jobs SET ` + strings.Join(assignments, ", ") + ` WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}
