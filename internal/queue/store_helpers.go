package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, title, source_kind, source_ref, content_hash, voice, speed, stage, raw_text_ref, cleaned_text_ref, audio_ref, timestamps_ref, error_message, progress, was_cleaned, created_at, updated_at, completed_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id             int64
		title          sql.NullString
		sourceKind     string
		sourceRef      sql.NullString
		contentHash    sql.NullString
		voice          string
		speed          sql.NullFloat64
		stageStr       string
		rawTextRef     sql.NullString
		cleanedTextRef sql.NullString
		audioRef       sql.NullString
		timestampsRef  sql.NullString
		errorMessage   sql.NullString
		progress       sql.NullString
		wasCleaned     sql.NullInt64
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
		completedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&sourceKind,
		&sourceRef,
		&contentHash,
		&voice,
		&speed,
		&stageStr,
		&rawTextRef,
		&cleanedTextRef,
		&audioRef,
		&timestampsRef,
		&errorMessage,
		&progress,
		&wasCleaned,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:             id,
		Title:          title.String,
		SourceKind:     SourceKind(sourceKind),
		SourceRef:      sourceRef.String,
		ContentHash:    contentHash.String,
		Voice:          voice,
		Speed:          speed.Float64,
		Stage:          Stage(stageStr),
		RawTextRef:     rawTextRef.String,
		CleanedTextRef: cleanedTextRef.String,
		AudioRef:       audioRef.String,
		TimestampsRef:  timestampsRef.String,
		ErrorMessage:   errorMessage.String,
		Progress:       progress.String,
	}
	if wasCleaned.Valid {
		item.WasCleaned = wasCleaned.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			item.CompletedAt = &completed
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
