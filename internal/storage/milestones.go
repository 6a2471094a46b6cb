package storage

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const milestoneColumns = "id, segment_id, title, target_date, status, achievement_level, completed_at, created_at"

func (r *SQLiteRepository) CreateMilestone(ctx context.Context, in model.Milestone) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO milestones (segment_id, title, target_date, status, achievement_level, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.SegmentID, in.Title, string(in.TargetDate), string(in.Status), string(in.Level),
		nullTime(in.CompletedAt), mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetMilestone(ctx context.Context, id int64) (model.Milestone, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, []any{id}, scanMilestone)
}

func (r *SQLiteRepository) UpdateMilestone(ctx context.Context, in model.Milestone) error {
	return r.exec(ctx, `
		UPDATE milestones
		SET title = ?, target_date = ?, status = ?, achievement_level = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, string(in.TargetDate), string(in.Status), string(in.Level), nullTime(in.CompletedAt), in.ID,
	)
}

func (r *SQLiteRepository) DeleteMilestone(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM milestones WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListMilestones(ctx context.Context, filter MilestoneFilter) ([]model.Milestone, error) {
	b := squirrel.Select(milestoneColumns).From("milestones")
	if filter.SegmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": filter.SegmentID})
	}
	if filter.DueFrom != "" {
		b = b.Where(squirrel.GtOrEq{"target_date": string(filter.DueFrom)})
	}
	if filter.DueTo != "" {
		b = b.Where(squirrel.LtOrEq{"target_date": string(filter.DueTo)})
	}
	b = b.OrderBy("target_date ASC", "id ASC")
	b = applyPagination(b, filter.Limit, filter.Offset)
	return queryAll(ctx, r.q(ctx), b, scanMilestone)
}

func scanMilestone(s scanner) (model.Milestone, error) {
	var out model.Milestone
	var target, status, level string
	var completedAt sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.SegmentID, &out.Title, &target, &status, &level, &completedAt, &created); err != nil {
		return model.Milestone{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Milestone{}, err
	}
	doneAt, err := parseNullableTime(completedAt)
	if err != nil {
		return model.Milestone{}, err
	}
	out.TargetDate = model.Date(target)
	out.Status = model.MilestoneStatus(status)
	out.Level = model.AchievementLevel(level)
	out.CompletedAt = doneAt
	out.CreatedAt = createdAt
	return out, nil
}
