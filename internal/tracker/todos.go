package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/goaltrack/internal/ledger"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

// CreateTodo adds a pending todo at the end of its list.
func (s *Service) CreateTodo(ctx context.Context, in model.Todo) (model.Todo, error) {
	in.Normalize()
	in.Level = model.AchievementPending
	in.Completed = false
	in.CompletedAt = nil
	in.HabitID = nil
	in.FromHabit = false
	if err := in.Validate(); err != nil {
		return model.Todo{}, err
	}

	var out model.Todo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, in.SegmentID); err != nil {
			return err
		}
		in.CreatedAt = s.now()
		id, err := s.store.CreateTodo(ctx, in)
		if err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
		out, err = s.store.GetTodo(ctx, id)
		return err
	})
	if err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

func (s *Service) RenameTodo(ctx context.Context, id int64, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, model.Invalid("title", "is required")
	}
	var out model.Todo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		todo, err := s.store.GetTodo(ctx, id)
		if err != nil {
			return notFound("todo", id, err)
		}
		todo.Title = title
		if err := s.store.UpdateTodo(ctx, todo); err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		out = todo
		return nil
	})
	return out, err
}

// SetTodoAchievement moves a todo to level and keeps its activity point in
// step, all in one transaction. Habit generated todos are credited through
// their habit.
func (s *Service) SetTodoAchievement(ctx context.Context, id int64, level model.AchievementLevel) (model.Todo, error) {
	if !level.IsWritable() {
		return model.Todo{}, model.Invalid("achievement_level", fmt.Sprintf("%q cannot be set", level))
	}
	var out model.Todo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		todo, err := s.store.GetTodo(ctx, id)
		if err != nil {
			return notFound("todo", id, err)
		}
		if todo.FromHabit && todo.HabitID != nil {
			if err := s.setHabitDone(ctx, *todo.HabitID, todo.Date, level.Credited()); err != nil {
				return err
			}
			out, err = s.store.GetTodo(ctx, id)
			return err
		}

		achieved := level.Credited()
		todo.Level = level
		todo.Completed = achieved
		todo.CompletedAt = s.stamp(achieved)
		if err := s.store.UpdateTodo(ctx, todo); err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		source, sourceID := todo.Source()
		if err := s.ledger.RecordTransition(ctx, ledger.Transition{
			Source:         source,
			SourceID:       sourceID,
			SegmentID:      todo.SegmentID,
			Date:           todo.Date,
			BecameAchieved: achieved,
			Description:    todo.Title,
		}); err != nil {
			return err
		}
		out = todo
		return nil
	})
	if err != nil {
		return model.Todo{}, err
	}
	s.log.Debug("todo achievement set", zap.Int64("todo_id", id), zap.String("level", string(level)))
	return out, nil
}

// ToggleTodo flips a todo between pending and achieved.
func (s *Service) ToggleTodo(ctx context.Context, id int64) (model.Todo, error) {
	var out model.Todo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		todo, err := s.store.GetTodo(ctx, id)
		if err != nil {
			return notFound("todo", id, err)
		}
		next := model.AchievementAchieved
		if todo.Completed {
			next = model.AchievementPending
		}
		out, err = s.SetTodoAchievement(ctx, id, next)
		return err
	})
	return out, err
}

// DeleteTodo removes a todo together with the credit it earned.
func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.deleteTodo(ctx, id)
	})
}

func (s *Service) deleteTodo(ctx context.Context, id int64) error {
	todo, err := s.store.GetTodo(ctx, id)
	if err != nil {
		return notFound("todo", id, err)
	}
	if todo.FromHabit && todo.HabitID != nil {
		// The habit keeps its credit on other days; only this day's goes.
		if err := s.setHabitDone(ctx, *todo.HabitID, todo.Date, false); err != nil {
			return err
		}
	} else {
		source, sourceID := todo.Source()
		if err := s.ledger.PurgeSource(ctx, source, sourceID); err != nil {
			return err
		}
	}
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return notFound("todo", id, err)
	}
	return nil
}

func (s *Service) ListTodos(ctx context.Context, segmentID int64, date model.Date) ([]model.Todo, error) {
	return s.store.ListTodos(ctx, storage.TodoFilter{SegmentID: segmentID, From: date, To: date})
}

// DeleteTodosOn removes a segment's todos for date, or only the incomplete
// ones, and returns how many were removed.
func (s *Service) DeleteTodosOn(ctx context.Context, segmentID int64, date model.Date, onlyIncomplete bool) (int, error) {
	if !date.IsValid() {
		return 0, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", date))
	}
	filter := storage.TodoFilter{SegmentID: segmentID, From: date, To: date}
	if onlyIncomplete {
		completed := false
		filter.Completed = &completed
	}
	removed := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, segmentID); err != nil {
			return err
		}
		todos, err := s.store.ListTodos(ctx, filter)
		if err != nil {
			return err
		}
		for _, todo := range todos {
			if err := s.deleteTodo(ctx, todo.ID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("todos deleted", zap.Int64("segment_id", segmentID), zap.String("date", date.String()),
		zap.Bool("only_incomplete", onlyIncomplete), zap.Int("count", removed))
	return removed, nil
}
