package storage

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

// ListCarryoverCandidates returns incomplete, non-habit daily and weekly
// todos dated in [from, before), newest first, joined with their segment.
func (r *SQLiteRepository) ListCarryoverCandidates(ctx context.Context, from, before model.Date) ([]CandidateRow, error) {
	b := squirrel.Select("t.id", "t.title", "t.date", "t.type", "t.segment_id", "s.name", "s.color").
		From("todos t").
		Join("segments s ON s.id = t.segment_id").
		Where(squirrel.Eq{
			"t.completed":     0,
			"t.is_from_habit": 0,
			"t.type":          []string{string(model.TodoKindDaily), string(model.TodoKindWeekly)},
		}).
		Where(squirrel.GtOrEq{"t.date": string(from)}).
		Where(squirrel.Lt{"t.date": string(before)}).
		OrderBy("t.date DESC", "s.name ASC", "t.title ASC", "t.id DESC")
	return queryAll(ctx, r.q(ctx), b, scanCandidateRow)
}

func (r *SQLiteRepository) ListCarryoverRecords(ctx context.Context, carriedOverDate model.Date) ([]model.CarryoverRecord, error) {
	b := squirrel.Select("id, segment_id, original_todo_id, original_title, original_date, carried_over_date, created_at").
		From("carryover_records").
		Where(squirrel.Eq{"carried_over_date": string(carriedOverDate)}).
		OrderBy("id ASC")
	return queryAll(ctx, r.q(ctx), b, scanCarryoverRecord)
}

func (r *SQLiteRepository) CreateCarryoverRecord(ctx context.Context, in model.CarryoverRecord) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO carryover_records (segment_id, original_todo_id, original_title, original_date, carried_over_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.SegmentID, in.OriginalTodoID, in.OriginalTitle, string(in.OriginalDate), string(in.CarriedOverDate), mustTime(in.CreatedAt),
	)
}

func scanCandidateRow(s scanner) (CandidateRow, error) {
	var out CandidateRow
	var date, kind string
	if err := s.Scan(&out.TodoID, &out.Title, &date, &kind, &out.SegmentID, &out.SegmentName, &out.SegmentColor); err != nil {
		return CandidateRow{}, err
	}
	out.Date = model.Date(date)
	out.Kind = model.TodoKind(kind)
	return out, nil
}

func scanCarryoverRecord(s scanner) (model.CarryoverRecord, error) {
	var out model.CarryoverRecord
	var original, carried, created string
	if err := s.Scan(&out.ID, &out.SegmentID, &out.OriginalTodoID, &out.OriginalTitle, &original, &carried, &created); err != nil {
		return model.CarryoverRecord{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.CarryoverRecord{}, err
	}
	out.OriginalDate = model.Date(original)
	out.CarriedOverDate = model.Date(carried)
	out.CreatedAt = createdAt
	return out, nil
}
