package queue

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StageUpdates carries optional field updates applied alongside a stage
// transition. Nil fields are left untouched.
type StageUpdates struct {
	Title          *string
	Voice          *string
	RawTextRef     *string
	CleanedTextRef *string
	AudioRef       *string
	TimestampsRef  *string
	Progress       *string
	WasCleaned     *bool
}

// UpdateStage persists a stage transition together with any field updates.
// The stage is validated against the known stage set; unknown names are
// rejected before touching the database.
func (s *Store) UpdateStage(ctx context.Context, id int64, stage Stage, updates *StageUpdates) error {
	if _, ok := stageSet[stage]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, string(stage))
	}

	setClauses := []string{"stage = ?", "updated_at = ?"}
	args := []any{stage, time.Now().UTC().Format(time.RFC3339Nano)}

	if updates != nil {
		if updates.Title != nil {
			setClauses = append(setClauses, "title = ?")
			args = append(args, nullableString(*updates.Title))
		}
		if updates.Voice != nil {
			setClauses = append(setClauses, "voice = ?")
			args = append(args, *updates.Voice)
		}
		if updates.RawTextRef != nil {
			setClauses = append(setClauses, "raw_text_ref = ?")
			args = append(args, nullableString(*updates.RawTextRef))
		}
		if updates.CleanedTextRef != nil {
			setClauses = append(setClauses, "cleaned_text_ref = ?")
			args = append(args, nullableString(*updates.CleanedTextRef))
		}
		if updates.AudioRef != nil {
			setClauses = append(setClauses, "audio_ref = ?")
			args = append(args, nullableString(*updates.AudioRef))
		}
		if updates.TimestampsRef != nil {
			setClauses = append(setClauses, "timestamps_ref = ?")
			args = append(args, nullableString(*updates.TimestampsRef))
		}
		if updates.Progress != nil {
			setClauses = append(setClauses, "progress = ?")
			args = append(args, nullableString(*updates.Progress))
		}
		if updates.WasCleaned != nil {
			setClauses = append(setClauses, "was_cleaned = ?")
			args = append(args, boolToInt(*updates.WasCleaned))
		}
	}
	if stage != StageError {
		setClauses = append(setClauses, "error_message = NULL")
	}

	args = append(args, id)
	query := `UPDATE items SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update stage: item %d not found", id)
	}
	return nil
}

// SetError marks an item failed with the given message and clears progress.
func (s *Store) SetError(ctx context.Context, id int64, message string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items SET stage = ?, error_message = ?, progress = NULL, updated_at = ? WHERE id = ?`,
		StageError,
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	return nil
}

// SetProgress updates the human-readable progress text for an item.
func (s *Store) SetProgress(ctx context.Context, id int64, progress string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items SET progress = ?, updated_at = ? WHERE id = ?`,
		nullableString(progress),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

// MarkCompleted records that the user finished listening to an item.
func (s *Store) MarkCompleted(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE items SET stage = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		StageCompleted,
		now,
		now,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("mark completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ResetStuckProcessing returns items left mid-stage by a crashed worker back
// to queued. Artifact references survive the reset so re-entry can skip work
// that already completed.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE items
         SET stage = ?, progress = NULL, updated_at = ?
         WHERE stage IN (?, ?, ?)`,
		StageQueued,
		time.Now().UTC().Format(time.RFC3339Nano),
		StageExtracting,
		StageCleaning,
		StageGenerating,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// ResetForReprocessing returns an item to the start of the pipeline.
func (s *Store) ResetForReprocessing(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items
         SET stage = ?, error_message = NULL, progress = NULL, updated_at = ?
         WHERE id = ?`,
		StageQueued,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("reset for reprocessing: %w", err)
	}
	return nil
}

// ResetForCleaning rewinds an item so the cleanup stage runs again from the
// raw extracted text.
func (s *Store) ResetForCleaning(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items
         SET stage = ?, cleaned_text_ref = NULL, audio_ref = NULL, timestamps_ref = NULL,
             was_cleaned = 0, error_message = NULL, progress = NULL, updated_at = ?
         WHERE id = ?`,
		StageExtracted,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("reset for cleaning: %w", err)
	}
	return nil
}

// ResetForAudio rewinds an item so audio is regenerated, optionally with a
// different voice.
func (s *Store) ResetForAudio(ctx context.Context, id int64, voice string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items
         SET stage = ?, audio_ref = NULL, timestamps_ref = NULL, voice = ?,
             error_message = NULL, progress = NULL, updated_at = ?
         WHERE id = ?`,
		StageCleaned,
		voice,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("reset for audio: %w", err)
	}
	return nil
}
