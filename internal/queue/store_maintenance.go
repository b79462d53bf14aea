package queue

import (
	"context"
	"fmt"
)

// Stats returns a count of items grouped by stage.
func (s *Store) Stats(ctx context.Context) (map[Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(1) FROM items GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Stage]int)
	for rows.Next() {
		var stage Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	return stats, rows.Err()
}

// Health aggregates item state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for stage, count := range stats {
		health.Total += count
		switch stage {
		case StageReady:
			health.Ready += count
		case StageCompleted:
			health.Completed += count
		case StageError:
			health.Errored += count
		default:
			if _, ok := processingStages[stage]; ok {
				health.Processing += count
			} else {
				health.Queued += count
			}
		}
	}
	return health, nil
}
