package evaluation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*Service, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "evaluation.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	// Each call moves the clock so a rewritten created_at would show.
	clock := time.Date(2026, 2, 9, 21, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	svc := NewService(repo, storage.NewTxManager(repo.DB()), nil, 0).WithClock(now)
	return svc, repo
}

type seeder struct {
	t       *testing.T
	repo    *storage.SQLiteRepository
	segment int64
}

func newSeeder(t *testing.T, repo *storage.SQLiteRepository, name string) *seeder {
	t.Helper()
	id, err := repo.CreateSegment(context.Background(), model.Segment{
		Name:      name,
		Color:     model.DefaultSegmentColor,
		CreatedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return &seeder{t: t, repo: repo, segment: id}
}

func (s *seeder) todo(date model.Date, kind model.TodoKind, achieved bool) int64 {
	s.t.Helper()
	todo := model.Todo{
		SegmentID: s.segment,
		Title:     "task " + date.String(),
		Date:      date,
		Kind:      kind,
		Level:     model.AchievementPending,
		CreatedAt: date.Time(),
	}
	if achieved {
		todo.Completed = true
		todo.Level = model.AchievementAchieved
		todo.CompletedAt = stampOn(date)
	}
	id, err := s.repo.CreateTodo(context.Background(), todo)
	require.NoError(s.t, err)
	if achieved {
		s.point(model.SourceForTodo(kind), id, date)
	}
	return id
}

func (s *seeder) milestone(target model.Date, achieved bool) int64 {
	s.t.Helper()
	m := model.Milestone{
		SegmentID:  s.segment,
		Title:      "milestone " + target.String(),
		TargetDate: target,
		Status:     model.MilestonePending,
		Level:      model.AchievementPending,
		CreatedAt:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	if achieved {
		m.Status = model.MilestoneCompleted
		m.Level = model.AchievementAchieved
		m.CompletedAt = stampOn(target.AddDays(-1))
	}
	id, err := s.repo.CreateMilestone(context.Background(), m)
	require.NoError(s.t, err)
	if achieved {
		s.point(model.SourceMilestone, id, target)
	}
	return id
}

func (s *seeder) point(source model.SourceKind, id int64, date model.Date) {
	s.t.Helper()
	_, err := s.repo.CreateActivityPoint(context.Background(), model.ActivityPoint{
		SegmentID: s.segment,
		Date:      date,
		Points:    1,
		Source:    source,
		SourceID:  id,
		CreatedAt: date.Time(),
	})
	require.NoError(s.t, err)
}

func TestComputeEvaluationSnapshotScenario(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	seed := newSeeder(t, repo, "Fitness")

	seed.milestone("2026-01-15", true)
	seed.milestone(asOf, true)
	seed.milestone("2026-03-01", true) // not due yet
	for i := 0; i < 10; i++ {
		seed.todo(asOf.AddDays(-i), model.TodoKindDaily, i < 6)
	}
	seed.todo("2026-01-05", model.TodoKindDaily, true) // outside the window

	snap, err := svc.ComputeEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)

	assert.Equal(t, Rate{Total: 2, Evaluated: 2, Achieved: 2}, snap.Milestones)
	assert.Equal(t, Rate{Total: 10, Evaluated: 6, Achieved: 6}, snap.Daily)
	assert.Equal(t, Rate{}, snap.Weekly)
	assert.Equal(t, 8, snap.ActivityVolume)
	assert.Equal(t, 8, snap.EvaluatedTasks)
	assert.Equal(t, 2, snap.OnTimeTasks)

	row, err := repo.GetEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, row.AchievementScore, 1e-9)
	assert.InDelta(t, 1.0, row.GoalDesignScore, 1e-9)
	assert.Zero(t, row.ConsistencyScore)
	assert.Equal(t, 800, row.TotalTodos)
	assert.Equal(t, 25, row.CompletedTodos)
	assert.Equal(t, 2, row.TotalMilestones)
	assert.Equal(t, 2, row.EvaluatedMilestones)
	assert.Zero(t, row.OverdueTasks)
	assert.Equal(t, 8, row.EvaluatedTasks)
	assert.Equal(t, 2, row.OnTimeTasks)
}

func TestComputeEvaluationIsIdempotent(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	seed := newSeeder(t, repo, "Reading")
	seed.todo(asOf, model.TodoKindWeekly, true)
	seed.todo(asOf.AddDays(-3), model.TodoKindDaily, false)

	_, err := svc.ComputeEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)
	first, err := repo.GetEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)

	_, err = svc.ComputeEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)
	second, err := repo.GetEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	rows, err := svc.History(ctx, seed.segment, "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestComputeEvaluationOverwritesOnChange(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	seed := newSeeder(t, repo, "Work")
	seed.todo(asOf, model.TodoKindDaily, true)

	_, err := svc.ComputeEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)
	seed.todo(asOf, model.TodoKindWeekly, true)
	snap, err := svc.ComputeEvaluation(ctx, seed.segment, asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ActivityVolume)

	latest, err := svc.Latest(ctx, seed.segment, asOf)
	require.NoError(t, err)
	assert.Equal(t, 200, latest.TotalTodos)
	assert.InDelta(t, 1.0, latest.ConsistencyScore, 1e-9)
}

func TestComputeEvaluationUnknownSegmentIsZero(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	snap, err := svc.ComputeEvaluation(ctx, 404, asOf)
	require.NoError(t, err)
	assert.Zero(t, snap.MilestoneRate())
	assert.Zero(t, snap.TaskValidity())

	rows, err := repo.ListEvaluations(ctx, storage.EvaluationFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestComputeEvaluationRejectsBadInput(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ComputeEvaluation(ctx, 1, "09/02/2026")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.ComputeEvaluation(ctx, 0, asOf)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestComputeAllAndHistory(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	a := newSeeder(t, repo, "A")
	b := newSeeder(t, repo, "B")
	a.todo(asOf, model.TodoKindDaily, true)
	b.todo(asOf.AddDays(-1), model.TodoKindDaily, false)

	snaps, err := svc.ComputeAll(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	_, err = svc.ComputeEvaluation(ctx, a.segment, asOf.AddDays(-1))
	require.NoError(t, err)

	history, err := svc.History(ctx, a.segment, asOf.AddDays(-7), asOf)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, asOf, history[0].Date)
	assert.Equal(t, asOf.AddDays(-1), history[1].Date)

	_, err = svc.Latest(ctx, b.segment, asOf.AddDays(-2))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWindowStart(t *testing.T) {
	svc := NewService(nil, nil, nil, 0)
	assert.Equal(t, model.Date("2026-01-11"), svc.WindowStart(asOf))
	svc = NewService(nil, nil, nil, 7)
	assert.Equal(t, model.Date("2026-02-03"), svc.WindowStart(asOf))
}
