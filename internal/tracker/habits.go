package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/goaltrack/internal/ledger"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

func (s *Service) CreateHabit(ctx context.Context, in model.HabitTodo) (model.HabitTodo, error) {
	in.Normalize()
	in.Active = true
	if err := in.Validate(); err != nil {
		return model.HabitTodo{}, err
	}
	var out model.HabitTodo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, in.SegmentID); err != nil {
			return err
		}
		in.CreatedAt = s.now()
		id, err := s.store.CreateHabit(ctx, in)
		if err != nil {
			return fmt.Errorf("create habit: %w", err)
		}
		in.ID = id
		out = in
		return nil
	})
	return out, err
}

// SetHabitActive pauses or resumes generation of a habit's daily todos.
func (s *Service) SetHabitActive(ctx context.Context, id int64, active bool) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		h, err := s.store.GetHabit(ctx, id)
		if err != nil {
			return notFound("habit", id, err)
		}
		h.Active = active
		return s.store.UpdateHabit(ctx, h)
	})
}

// DeleteHabit removes a habit, its completions, its generated todos and
// every point it earned.
func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.PurgeSource(ctx, model.SourceHabit, id); err != nil {
			return err
		}
		if err := s.store.DeleteHabit(ctx, id); err != nil {
			return notFound("habit", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("habit deleted", zap.Int64("habit_id", id))
	return nil
}

func (s *Service) ListHabits(ctx context.Context, segmentID int64) ([]model.HabitTodo, error) {
	return s.store.ListHabits(ctx, storage.HabitFilter{SegmentID: segmentID})
}

// ToggleHabitCompletion flips whether habit id was done on date and
// reports the new state.
func (s *Service) ToggleHabitCompletion(ctx context.Context, id int64, date model.Date) (bool, error) {
	if !date.IsValid() {
		return false, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", date))
	}
	var done bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.store.GetHabitCompletion(ctx, id, date)
		switch {
		case err == nil:
			done = false
		case errors.Is(err, storage.ErrNotFound):
			done = true
		default:
			return fmt.Errorf("get habit completion: %w", err)
		}
		return s.setHabitDone(ctx, id, date, done)
	})
	return done, err
}

// setHabitDone brings the completion row, the generated todo for that day
// (if any) and the habit's point for that day to the same state.
func (s *Service) setHabitDone(ctx context.Context, habitID int64, date model.Date, done bool) error {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return notFound("habit", habitID, err)
	}

	_, err = s.store.GetHabitCompletion(ctx, habitID, date)
	exists := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("get habit completion: %w", err)
	}
	switch {
	case done && !exists:
		if _, err := s.store.CreateHabitCompletion(ctx, model.HabitCompletion{HabitID: habitID, Date: date, CompletedAt: s.now()}); err != nil {
			return fmt.Errorf("create habit completion: %w", err)
		}
	case !done && exists:
		if err := s.store.DeleteHabitCompletion(ctx, habitID, date); err != nil {
			return fmt.Errorf("delete habit completion: %w", err)
		}
	}

	todo, err := s.store.FindHabitTodo(ctx, habitID, date)
	switch {
	case err == nil:
		if todo.Completed != done {
			todo.Completed = done
			todo.Level = model.AchievementPending
			if done {
				todo.Level = model.AchievementAchieved
			}
			todo.CompletedAt = s.stamp(done)
			if err := s.store.UpdateTodo(ctx, todo); err != nil {
				return fmt.Errorf("update habit todo: %w", err)
			}
		}
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("find habit todo: %w", err)
	}

	return s.ledger.RecordTransition(ctx, ledger.Transition{
		Source:         model.SourceHabit,
		SourceID:       habitID,
		SegmentID:      habit.SegmentID,
		Date:           date,
		BecameAchieved: done,
		Description:    habit.Title,
	})
}

// GenerateHabitTodos creates today's todo for every active habit of a
// segment that does not have one yet and returns how many were created.
func (s *Service) GenerateHabitTodos(ctx context.Context, segmentID int64, date model.Date) (int, error) {
	if !date.IsValid() {
		return 0, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", date))
	}
	created := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		habits, err := s.store.ListHabits(ctx, storage.HabitFilter{SegmentID: segmentID, ActiveOnly: true})
		if err != nil {
			return err
		}
		for _, h := range habits {
			_, err := s.store.FindHabitTodo(ctx, h.ID, date)
			if err == nil {
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("find habit todo: %w", err)
			}
			todo := h.Instance(date, s.now())
			if _, err := s.store.GetHabitCompletion(ctx, h.ID, date); err == nil {
				todo.Completed = true
				todo.Level = model.AchievementAchieved
				todo.CompletedAt = s.stamp(true)
			} else if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("get habit completion: %w", err)
			}
			if _, err := s.store.CreateTodo(ctx, todo); err != nil {
				return fmt.Errorf("create habit todo: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.log.Info("habit todos generated", zap.Int64("segment_id", segmentID), zap.String("date", date.String()), zap.Int("count", created))
	}
	return created, nil
}

// GenerateAllHabitTodos runs GenerateHabitTodos for every segment.
func (s *Service) GenerateAllHabitTodos(ctx context.Context, date model.Date) (int, error) {
	segments, err := s.store.ListSegments(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, seg := range segments {
		n, err := s.GenerateHabitTodos(ctx, seg.ID, date)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
