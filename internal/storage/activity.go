package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const activityColumns = "id, segment_id, date, points, source_type, source_id, description, created_at"

func (r *SQLiteRepository) FindActivityPoint(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (model.ActivityPoint, error) {
	return queryOne(ctx, r.q(ctx), `
		SELECT `+activityColumns+` FROM activity_points
		WHERE source_type = ? AND source_id = ? AND date = ?`,
		[]any{string(source), sourceID, string(date)}, scanActivityPoint)
}

func (r *SQLiteRepository) CreateActivityPoint(ctx context.Context, in model.ActivityPoint) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO activity_points (segment_id, date, points, source_type, source_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.SegmentID, string(in.Date), in.Points, string(in.Source), in.SourceID, in.Description, mustTime(in.CreatedAt),
	)
}

// DeleteActivityPoints removes the rows of exactly one (source, id, date)
// key and reports how many were removed.
func (r *SQLiteRepository) DeleteActivityPoints(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (int64, error) {
	return r.execCount(ctx, squirrel.Delete("activity_points").Where(squirrel.Eq{
		"source_type": string(source),
		"source_id":   sourceID,
		"date":        string(date),
	}))
}

func (r *SQLiteRepository) DeleteActivityPointsBySource(ctx context.Context, source model.SourceKind, sourceID int64) (int64, error) {
	return r.execCount(ctx, squirrel.Delete("activity_points").Where(squirrel.Eq{
		"source_type": string(source),
		"source_id":   sourceID,
	}))
}

func (r *SQLiteRepository) ListActivityPoints(ctx context.Context, filter ActivityFilter) ([]model.ActivityPoint, error) {
	b := applyActivityFilter(squirrel.Select(activityColumns).From("activity_points"), filter).
		OrderBy("date ASC", "id ASC")
	return queryAll(ctx, r.q(ctx), b, scanActivityPoint)
}

func (r *SQLiteRepository) SumActivityPoints(ctx context.Context, filter ActivityFilter) (int, error) {
	b := applyActivityFilter(squirrel.Select("COALESCE(SUM(points), 0)").From("activity_points"), filter)
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var total sql.NullInt64
	if err := r.q(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

func applyActivityFilter(b squirrel.SelectBuilder, filter ActivityFilter) squirrel.SelectBuilder {
	if filter.SegmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": filter.SegmentID})
	}
	if filter.From != "" {
		b = b.Where(squirrel.GtOrEq{"date": string(filter.From)})
	}
	if filter.To != "" {
		b = b.Where(squirrel.LtOrEq{"date": string(filter.To)})
	}
	if filter.Source != "" {
		b = b.Where(squirrel.Eq{"source_type": string(filter.Source)})
	}
	if filter.SourceID > 0 {
		b = b.Where(squirrel.Eq{"source_id": filter.SourceID})
	}
	return b
}

func scanActivityPoint(s scanner) (model.ActivityPoint, error) {
	var out model.ActivityPoint
	var date, source, created string
	if err := s.Scan(&out.ID, &out.SegmentID, &date, &out.Points, &source, &out.SourceID, &out.Description, &created); err != nil {
		return model.ActivityPoint{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.ActivityPoint{}, err
	}
	out.Date = model.Date(date)
	out.Source = model.SourceKind(source)
	out.CreatedAt = createdAt
	return out, nil
}
