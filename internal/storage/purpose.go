package storage

import (
	"context"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

// GetPurpose returns the saved overall purpose or ErrNotFound.
func (r *SQLiteRepository) GetPurpose(ctx context.Context) (model.OverallPurpose, error) {
	return queryOne(ctx, r.q(ctx),
		`SELECT title, description, goal, updated_at FROM overall_purpose WHERE id = 1`, nil,
		func(s scanner) (model.OverallPurpose, error) {
			var out model.OverallPurpose
			var updated string
			if err := s.Scan(&out.Title, &out.Description, &out.Goal, &updated); err != nil {
				return model.OverallPurpose{}, err
			}
			updatedAt, err := parseRequiredTime(updated)
			if err != nil {
				return model.OverallPurpose{}, err
			}
			out.UpdatedAt = updatedAt
			return out, nil
		})
}

// SavePurpose writes the single overall purpose row, replacing any earlier
// one.
func (r *SQLiteRepository) SavePurpose(ctx context.Context, in model.OverallPurpose) error {
	_, err := r.q(ctx).ExecContext(ctx, `
		INSERT INTO overall_purpose (id, title, description, goal, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			goal = excluded.goal,
			updated_at = excluded.updated_at`,
		in.Title, in.Description, in.Goal, mustTime(in.UpdatedAt),
	)
	return err
}
