package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewItemParams carries the fields the ingestion boundary supplies when
// enqueueing a document.
type NewItemParams struct {
	Title       string
	SourceKind  SourceKind
	SourceRef   string
	ContentHash string
	Voice       string
	Speed       float64
}

// NewItem inserts a new item in the queued stage. When the content hash is
// already tracked, the existing item is returned instead of creating a second
// one.
func (s *Store) NewItem(ctx context.Context, params NewItemParams) (*Item, error) {
	if _, ok := sourceKinds[params.SourceKind]; !ok {
		return nil, fmt.Errorf("unknown source kind %q", string(params.SourceKind))
	}
	if params.Voice == "" {
		return nil, errors.New("voice is required")
	}
	if params.Speed <= 0 {
		params.Speed = 1.0
	}

	if params.ContentHash != "" {
		existing, err := s.GetByHash(ctx, params.ContentHash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO items (
            title, source_kind, source_ref, content_hash, voice, speed,
            stage, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(strings.TrimSpace(params.Title)),
		params.SourceKind,
		nullableString(params.SourceRef),
		nullableString(params.ContentHash),
		params.Voice,
		params.Speed,
		StageQueued,
		timestamp,
		timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateContent, params.ContentHash)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update persists every mutable field of item. Stage handlers mutate the
// in-memory item and the workflow manager calls Update to commit the result.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if _, ok := stageSet[item.Stage]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, string(item.Stage))
	}
	item.UpdatedAt = time.Now().UTC()
	var completedAt any
	if item.CompletedAt != nil {
		completedAt = item.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE items
         SET title = ?, voice = ?, speed = ?, stage = ?,
             raw_text_ref = ?, cleaned_text_ref = ?, audio_ref = ?, timestamps_ref = ?,
             error_message = ?, progress = ?, was_cleaned = ?,
             updated_at = ?, completed_at = ?
         WHERE id = ?`,
		nullableString(item.Title),
		item.Voice,
		item.Speed,
		item.Stage,
		nullableString(item.RawTextRef),
		nullableString(item.CleanedTextRef),
		nullableString(item.AudioRef),
		nullableString(item.TimestampsRef),
		nullableString(item.ErrorMessage),
		nullableString(item.Progress),
		boolToInt(item.WasCleaned),
		item.UpdatedAt.Format(time.RFC3339Nano),
		completedAt,
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// GetByID fetches an item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByHash returns the item tracking a content hash, if any.
func (s *Store) GetByHash(ctx context.Context, contentHash string) (*Item, error) {
	if contentHash == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE content_hash = ? ORDER BY id LIMIT 1`,
		contentHash,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by hash: %w", err)
	}
	return item, nil
}

// List returns items filtered by stage set (or all items when no stage is
// provided), ordered by creation time.
func (s *Store) List(ctx context.Context, stages ...Stage) ([]*Item, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM items`
	orderClause := ` ORDER BY created_at`

	if len(stages) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(stages))
		args := make([]any, len(stages))
		for i, stage := range stages {
			args[i] = stage
		}
		query := baseQuery + ` WHERE stage IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListPending returns items the worker still has work for, oldest first.
func (s *Store) ListPending(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE stage NOT IN (?, ?, ?) ORDER BY created_at`,
		StageReady,
		StageCompleted,
		StageError,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes an item by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed items.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM items WHERE stage = ?`, StageCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}
