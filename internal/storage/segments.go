package storage

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const segmentColumns = "id, name, overall_goal, color, created_at"

func (r *SQLiteRepository) CreateSegment(ctx context.Context, in model.Segment) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO segments (name, overall_goal, color, created_at)
		VALUES (?, ?, ?, ?)`,
		in.Name, in.OverallGoal, in.Color, mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetSegment(ctx context.Context, id int64) (model.Segment, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+segmentColumns+` FROM segments WHERE id = ?`, []any{id}, scanSegment)
}

func (r *SQLiteRepository) UpdateSegment(ctx context.Context, in model.Segment) error {
	return r.exec(ctx, `
		UPDATE segments SET name = ?, overall_goal = ?, color = ?
		WHERE id = ?`,
		in.Name, in.OverallGoal, in.Color, in.ID,
	)
}

// DeleteSegment removes the segment; child rows go with it through
// ON DELETE CASCADE.
func (r *SQLiteRepository) DeleteSegment(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM segments WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListSegments(ctx context.Context) ([]model.Segment, error) {
	b := squirrel.Select(segmentColumns).From("segments").OrderBy("id ASC")
	return queryAll(ctx, r.q(ctx), b, scanSegment)
}

// PurgeSegmentData deletes the tracked history owned by segmentID, keeping
// the segment itself and its discussion items. A zero segmentID purges
// every segment's data.
func (r *SQLiteRepository) PurgeSegmentData(ctx context.Context, segmentID int64) error {
	tables := []string{
		"evaluations",
		"activity_points",
		"carryover_records",
		"todos",
		"milestones",
		"habit_todos",
	}
	for _, table := range tables {
		b := squirrel.Delete(table)
		if segmentID > 0 {
			b = b.Where(squirrel.Eq{"segment_id": segmentID})
		}
		if _, err := r.execCount(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func scanSegment(s scanner) (model.Segment, error) {
	var out model.Segment
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.OverallGoal, &out.Color, &created); err != nil {
		return model.Segment{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Segment{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}
