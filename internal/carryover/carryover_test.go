package carryover

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = model.Date("2026-02-09")

var errInjected = errors.New("injected todo failure")

// failingTodoStore passes everything through except CreateTodo.
type failingTodoStore struct {
	*storage.SQLiteRepository
}

func (f failingTodoStore) CreateTodo(context.Context, model.Todo) (int64, error) {
	return 0, errInjected
}

func openRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "carryover.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newService(repo *storage.SQLiteRepository, store Store) *Service {
	clock := func() time.Time { return time.Date(2026, 2, 9, 7, 30, 0, 0, time.UTC) }
	return NewService(store, storage.NewTxManager(repo.DB()), nil, 0).WithClock(clock)
}

func seedSegment(t *testing.T, repo *storage.SQLiteRepository, name, color string) int64 {
	t.Helper()
	id, err := repo.CreateSegment(context.Background(), model.Segment{Name: name, Color: color, CreatedAt: time.Now()})
	require.NoError(t, err)
	return id
}

type todoOpt func(*model.Todo)

func completed(td *model.Todo) {
	td.Completed = true
	td.Level = model.AchievementAchieved
	now := time.Now()
	td.CompletedAt = &now
}

func weekly(td *model.Todo) { td.Kind = model.TodoKindWeekly }

func seedTodo(t *testing.T, repo *storage.SQLiteRepository, segmentID int64, title string, date model.Date, opts ...todoOpt) int64 {
	t.Helper()
	td := model.Todo{
		SegmentID: segmentID,
		Title:     title,
		Date:      date,
		Kind:      model.TodoKindDaily,
		Level:     model.AchievementPending,
		CreatedAt: date.Time(),
	}
	for _, opt := range opts {
		opt(&td)
	}
	id, err := repo.CreateTodo(context.Background(), td)
	require.NoError(t, err)
	return id
}

func refs(candidates []Candidate) []CandidateRef {
	out := make([]CandidateRef, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Ref())
	}
	return out
}

func TestDedupeKeepsMostRecentPerKey(t *testing.T) {
	in := []Candidate{
		{ID: 1, Title: "Read", Date: "2026-02-04", SegmentID: 1, SegmentName: "Study"},
		{ID: 2, Title: " read ", Date: "2026-02-06", SegmentID: 1, SegmentName: "Study"},
		{ID: 3, Title: "Read", Date: "2026-02-08", SegmentID: 2, SegmentName: "Books"},
		{ID: 4, Title: "Write", Date: "2026-02-06", SegmentID: 1, SegmentName: "Study"},
		{ID: 5, Title: "Stretch", Date: "2026-02-08", SegmentID: 2, SegmentName: "Books"},
	}
	carried := map[model.CarryoverKey]struct{}{model.KeyFor(2, "STRETCH"): {}}

	out := Dedupe(in, carried)
	ids := make([]int64, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{3, 2, 4}, ids)
}

func TestFindCandidatesFilters(t *testing.T) {
	repo := openRepo(t)
	svc := newService(repo, repo)
	ctx := context.Background()
	seg := seedSegment(t, repo, "Study", "#ff8800")

	seedTodo(t, repo, seg, "Read 10 pages", today.AddDays(-5))
	recent := seedTodo(t, repo, seg, "  read 10 PAGES ", today.AddDays(-3))
	oldest := seedTodo(t, repo, seg, "Plan week", today.AddDays(-7), weekly)
	seedTodo(t, repo, seg, "Too old", today.AddDays(-8))
	seedTodo(t, repo, seg, "Today", today)
	seedTodo(t, repo, seg, "Done", today.AddDays(-1), completed)

	habit, err := repo.CreateHabit(ctx, model.HabitTodo{SegmentID: seg, Title: "Stretch", Active: true, CreatedAt: time.Now()})
	require.NoError(t, err)
	instance := model.HabitTodo{ID: habit, SegmentID: seg, Title: "Stretch"}.Instance(today.AddDays(-1), time.Now())
	_, err = repo.CreateTodo(ctx, instance)
	require.NoError(t, err)

	got, err := svc.FindCandidates(ctx, today)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, recent, got[0].ID)
	assert.Equal(t, today.AddDays(-3), got[0].Date)
	assert.Equal(t, "Study", got[0].SegmentName)
	assert.Equal(t, "#ff8800", got[0].SegmentColor)
	assert.Equal(t, oldest, got[1].ID)
	assert.Equal(t, model.TodoKindWeekly, got[1].Kind)
}

func TestCarryoverRoundTrip(t *testing.T) {
	repo := openRepo(t)
	svc := newService(repo, repo)
	ctx := context.Background()
	seg := seedSegment(t, repo, "A", model.DefaultSegmentColor)
	original := seedTodo(t, repo, seg, "Read 10 pages", today.AddDays(-2))
	seedTodo(t, repo, seg, "Already here", today)

	candidates, err := svc.FindCandidates(ctx, today)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	res, err := svc.Record(ctx, refs(candidates), today)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Count: 1}, res)

	todos, err := repo.ListTodos(ctx, storage.TodoFilter{SegmentID: seg, From: today, To: today})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	carried := todos[1]
	assert.Equal(t, "Read 10 pages", carried.Title)
	assert.False(t, carried.Completed)
	assert.Equal(t, model.AchievementPending, carried.Level)
	assert.Equal(t, model.TodoKindDaily, carried.Kind)
	assert.Equal(t, 2, carried.DisplayOrder)

	records, err := repo.ListCarryoverRecords(ctx, today)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, original, records[0].OriginalTodoID)
	assert.Equal(t, today.AddDays(-2), records[0].OriginalDate)
	assert.Equal(t, seg, records[0].SegmentID)

	// Carried keys are no longer offered, and replaying the batch is a no-op.
	again, err := svc.FindCandidates(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, again)

	res, err = svc.Record(ctx, refs(candidates), today)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Count: 0, Skipped: 1}, res)
	assert.Equal(t, "carried 0 todo(s) to "+today.String()+", 1 already carried", res.Summary(today))
	records, err = repo.ListCarryoverRecords(ctx, today)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCarryoverNormalizesWeeklyToDaily(t *testing.T) {
	repo := openRepo(t)
	svc := newService(repo, repo)
	ctx := context.Background()
	seg := seedSegment(t, repo, "Work", model.DefaultSegmentColor)
	seedTodo(t, repo, seg, "Review roadmap", today.AddDays(-4), weekly)

	candidates, err := svc.FindCandidates(ctx, today)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	_, err = svc.Record(ctx, refs(candidates), today)
	require.NoError(t, err)

	todos, err := repo.ListTodos(ctx, storage.TodoFilter{SegmentID: seg, From: today, To: today})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, model.TodoKindDaily, todos[0].Kind)
}

func TestRecordSkipsSameTitleOfOtherKind(t *testing.T) {
	repo := openRepo(t)
	svc := newService(repo, repo)
	ctx := context.Background()
	seg := seedSegment(t, repo, "Work", model.DefaultSegmentColor)
	daily := seedTodo(t, repo, seg, "Plan sprint", today.AddDays(-1))
	weeklyID := seedTodo(t, repo, seg, "Plan sprint", today.AddDays(-3), weekly)

	res, err := svc.Record(ctx, []CandidateRef{{ID: daily, Title: "Plan sprint", Date: today.AddDays(-1), SegmentID: seg}}, today)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	// The key is (segment, title): the weekly row with the same title is
	// already covered.
	res, err = svc.Record(ctx, []CandidateRef{{ID: weeklyID, Title: "Plan sprint", Date: today.AddDays(-3), SegmentID: seg}}, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Count: 0, Skipped: 1}, res)

	todos, err := repo.ListTodos(ctx, storage.TodoFilter{SegmentID: seg, From: today, To: today})
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestCarryoverBatchIsAtomic(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	seg := seedSegment(t, repo, "A", model.DefaultSegmentColor)
	seedTodo(t, repo, seg, "First", today.AddDays(-1))
	seedTodo(t, repo, seg, "Second", today.AddDays(-2))

	candidates, err := newService(repo, repo).FindCandidates(ctx, today)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	failing := newService(repo, failingTodoStore{repo})
	res, err := failing.Record(ctx, refs(candidates), today)
	require.ErrorIs(t, err, errInjected)
	assert.False(t, res.Success)

	records, err := repo.ListCarryoverRecords(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, records)
	todos, err := repo.ListTodos(ctx, storage.TodoFilter{From: today, To: today})
	require.NoError(t, err)
	assert.Empty(t, todos)

	// The failed batch is offered again unchanged.
	retry, err := newService(repo, repo).FindCandidates(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, candidates, retry)
}

func TestRecordValidatesBeforeStoreAccess(t *testing.T) {
	repo := openRepo(t)
	svc := newService(repo, failingTodoStore{repo})
	ctx := context.Background()

	res, err := svc.Record(ctx, nil, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true}, res)

	cases := []CandidateRef{
		{ID: 0, Title: "x", Date: today, SegmentID: 1},
		{ID: 1, Title: "  ", Date: today, SegmentID: 1},
		{ID: 1, Title: "x", Date: "yesterday", SegmentID: 1},
		{ID: 1, Title: "x", Date: today, SegmentID: 0},
	}
	for _, ref := range cases {
		_, err := svc.Record(ctx, []CandidateRef{ref}, today)
		assert.ErrorIs(t, err, model.ErrValidation)
	}

	_, err = svc.Record(ctx, []CandidateRef{{ID: 1, Title: "x", Date: today, SegmentID: 1}}, "bad")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.FindCandidates(ctx, "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
