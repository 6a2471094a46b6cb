package storage

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const todoColumns = "id, segment_id, title, date, type, completed, achievement_level, habit_todo_id, is_from_habit, display_order, completed_at, created_at"

// CreateTodo inserts in at the end of its (segment, date, kind) list; the
// display order is computed in the same statement.
func (r *SQLiteRepository) CreateTodo(ctx context.Context, in model.Todo) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO todos (segment_id, title, date, type, completed, achievement_level, habit_todo_id, is_from_habit, display_order, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(display_order), 0) + 1 FROM todos WHERE segment_id = ? AND date = ? AND type = ?),
			?, ?)`,
		in.SegmentID, in.Title, string(in.Date), string(in.Kind), boolInt(in.Completed), string(in.Level),
		nullInt(in.HabitID), boolInt(in.FromHabit),
		in.SegmentID, string(in.Date), string(in.Kind),
		nullTime(in.CompletedAt), mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+todoColumns+` FROM todos WHERE id = ?`, []any{id}, scanTodo)
}

func (r *SQLiteRepository) UpdateTodo(ctx context.Context, in model.Todo) error {
	return r.exec(ctx, `
		UPDATE todos
		SET title = ?, completed = ?, achievement_level = ?, display_order = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, boolInt(in.Completed), string(in.Level), in.DisplayOrder, nullTime(in.CompletedAt), in.ID,
	)
}

func (r *SQLiteRepository) DeleteTodo(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM todos WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	b := squirrel.Select(todoColumns).From("todos")
	if filter.SegmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": filter.SegmentID})
	}
	if filter.From != "" {
		b = b.Where(squirrel.GtOrEq{"date": string(filter.From)})
	}
	if filter.To != "" {
		b = b.Where(squirrel.LtOrEq{"date": string(filter.To)})
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			kinds = append(kinds, string(k))
		}
		b = b.Where(squirrel.Eq{"type": kinds})
	}
	if filter.Completed != nil {
		b = b.Where(squirrel.Eq{"completed": boolInt(*filter.Completed)})
	}
	if filter.FromHabit != nil {
		b = b.Where(squirrel.Eq{"is_from_habit": boolInt(*filter.FromHabit)})
	}
	if filter.HabitID > 0 {
		b = b.Where(squirrel.Eq{"habit_todo_id": filter.HabitID})
	}
	b = b.OrderBy("date ASC", "type ASC", "display_order ASC", "id ASC")
	b = applyPagination(b, filter.Limit, filter.Offset)
	return queryAll(ctx, r.q(ctx), b, scanTodo)
}

func (r *SQLiteRepository) FindHabitTodo(ctx context.Context, habitID int64, date model.Date) (model.Todo, error) {
	return queryOne(ctx, r.q(ctx), `
		SELECT `+todoColumns+` FROM todos
		WHERE habit_todo_id = ? AND date = ? AND is_from_habit = 1
		ORDER BY id ASC LIMIT 1`,
		[]any{habitID, string(date)}, scanTodo)
}

func scanTodo(s scanner) (model.Todo, error) {
	var out model.Todo
	var date, kind, level string
	var completed, fromHabit int
	var habitID sql.NullInt64
	var completedAt sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.SegmentID, &out.Title, &date, &kind, &completed, &level, &habitID, &fromHabit, &out.DisplayOrder, &completedAt, &created); err != nil {
		return model.Todo{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Todo{}, err
	}
	doneAt, err := parseNullableTime(completedAt)
	if err != nil {
		return model.Todo{}, err
	}
	out.Date = model.Date(date)
	out.Kind = model.TodoKind(kind)
	out.Level = model.AchievementLevel(level)
	out.Completed = completed == 1
	out.FromHabit = fromHabit == 1
	if habitID.Valid {
		id := habitID.Int64
		out.HabitID = &id
	}
	out.CompletedAt = doneAt
	out.CreatedAt = createdAt
	return out, nil
}
