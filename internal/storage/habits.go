package storage

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const habitColumns = "id, segment_id, title, active, created_at"

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in model.HabitTodo) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO habit_todos (segment_id, title, active, created_at)
		VALUES (?, ?, ?, ?)`,
		in.SegmentID, in.Title, boolInt(in.Active), mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id int64) (model.HabitTodo, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+habitColumns+` FROM habit_todos WHERE id = ?`, []any{id}, scanHabit)
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in model.HabitTodo) error {
	return r.exec(ctx, `UPDATE habit_todos SET title = ?, active = ? WHERE id = ?`,
		in.Title, boolInt(in.Active), in.ID)
}

// DeleteHabit removes the habit; completions and generated todos cascade.
func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM habit_todos WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListHabits(ctx context.Context, filter HabitFilter) ([]model.HabitTodo, error) {
	b := squirrel.Select(habitColumns).From("habit_todos")
	if filter.SegmentID > 0 {
		b = b.Where(squirrel.Eq{"segment_id": filter.SegmentID})
	}
	if filter.ActiveOnly {
		b = b.Where(squirrel.Eq{"active": 1})
	}
	b = b.OrderBy("id ASC")
	return queryAll(ctx, r.q(ctx), b, scanHabit)
}

func (r *SQLiteRepository) GetHabitCompletion(ctx context.Context, habitID int64, date model.Date) (model.HabitCompletion, error) {
	return queryOne(ctx, r.q(ctx), `
		SELECT id, habit_todo_id, date, completed_at FROM habit_completions
		WHERE habit_todo_id = ? AND date = ?`,
		[]any{habitID, string(date)}, scanHabitCompletion)
}

func (r *SQLiteRepository) CreateHabitCompletion(ctx context.Context, in model.HabitCompletion) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO habit_completions (habit_todo_id, date, completed_at)
		VALUES (?, ?, ?)`,
		in.HabitID, string(in.Date), mustTime(in.CompletedAt),
	)
}

func (r *SQLiteRepository) DeleteHabitCompletion(ctx context.Context, habitID int64, date model.Date) error {
	return r.exec(ctx, `DELETE FROM habit_completions WHERE habit_todo_id = ? AND date = ?`, habitID, string(date))
}

func scanHabit(s scanner) (model.HabitTodo, error) {
	var out model.HabitTodo
	var active int
	var created string
	if err := s.Scan(&out.ID, &out.SegmentID, &out.Title, &active, &created); err != nil {
		return model.HabitTodo{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.HabitTodo{}, err
	}
	out.Active = active == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanHabitCompletion(s scanner) (model.HabitCompletion, error) {
	var out model.HabitCompletion
	var date, completed string
	if err := s.Scan(&out.ID, &out.HabitID, &date, &completed); err != nil {
		return model.HabitCompletion{}, err
	}
	completedAt, err := parseRequiredTime(completed)
	if err != nil {
		return model.HabitCompletion{}, err
	}
	out.Date = model.Date(date)
	out.CompletedAt = completedAt
	return out, nil
}
