package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/commands"
	"github.com/sandeepkv93/goaltrack/internal/config"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 2, 9, 18, 30, 0, 0, time.UTC)

func setupApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a.WithClock(func() time.Time { return fixedNow })
}

func run(t *testing.T, a *App, line string) string {
	t.Helper()
	res, err := commands.Run(context.Background(), line, a.Handlers(a.Today()))
	require.NoError(t, err, line)
	return res.Message
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestTodayUsesClock(t *testing.T) {
	a := setupApp(t)
	assert.Equal(t, model.Date("2026-02-09"), a.Today())
}

func TestBoundAppliesOpTimeout(t *testing.T) {
	a := setupApp(t)
	a.Config.Database.OpTimeout = time.Minute
	ctx, cancel := a.Bound(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	a.Config.Database.OpTimeout = 0
	ctx2, cancel2 := a.Bound(context.Background())
	defer cancel2()
	_, ok = ctx2.Deadline()
	assert.False(t, ok)
}

func TestCommandLanguageEndToEnd(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	assert.Equal(t, "created segment #1 Health", run(t, a, "segment Health"))
	assert.Equal(t, "added daily todo #1: stretch", run(t, a, "add 1 stretch"))
	assert.Equal(t, "added weekly todo #2: long run", run(t, a, "weekly 1 long run"))
	assert.Equal(t, "added habit #1: meditate (1 todo(s) for today)", run(t, a, "habit 1 meditate"))
	assert.Equal(t, "added milestone #1 due 2026-03-01: run a 10k", run(t, a, "milestone 1 2026-03-01 run a 10k"))

	assert.Equal(t, "todo #1 is achieved", run(t, a, "done 1"))
	points, err := a.SegmentPoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, points)

	assert.Equal(t,
		"segment #1 on 2026-02-09: milestones 0.00 daily 1.00 weekly 0.00 volume 1 validity 1.00",
		run(t, a, "eval 1"))

	assert.Equal(t, "todo #1 is pending", run(t, a, "undo 1"))
	points, err = a.SegmentPoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, points)

	assert.Equal(t, "deleted todo #2", run(t, a, "rm 2"))
	assert.Equal(t, "noted #1 on segment #1", run(t, a, "note 1 switch gyms?"))
	assert.Equal(t, "memo #1 on note #1", run(t, a, "memo 1 the new one opens at six"))

	assert.Equal(t, "no purpose set", run(t, a, "purpose"))
	assert.Equal(t, "purpose set: live with intent", run(t, a, "purpose live with intent"))
	assert.Equal(t, "purpose: live with intent", run(t, a, "purpose"))
	assert.Equal(t, "bucket item #1: see the aurora", run(t, a, "bucket see the aurora"))

	todos, err := a.ListTodos(ctx, 1, a.Today())
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestCommandErrorsSurface(t *testing.T) {
	a := setupApp(t)
	handlers := a.Handlers(a.Today())

	_, err := commands.Run(context.Background(), "add 99 orphan", handlers)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	_, err = commands.Run(context.Background(), "done 42", handlers)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	_, err = commands.Run(context.Background(), "memo 5 dangling", handlers)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
}

func TestCarryCommandListsThenCarries(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	run(t, a, "segment Health")
	_, err := a.Tracker.CreateTodo(ctx, model.Todo{SegmentID: 1, Title: "stale", Date: a.Today().AddDays(-1)})
	require.NoError(t, err)

	msg := run(t, a, "carry")
	assert.Contains(t, msg, "1 carryover candidate(s):")
	assert.Contains(t, msg, "[Health] stale (daily, 2026-02-08)")

	assert.Equal(t, "carried 1 todo(s) to 2026-02-09", run(t, a, "carry all"))
	assert.Equal(t, "no carryover candidates", run(t, a, "carry"))

	todos, err := a.ListTodos(ctx, 1, a.Today())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "stale", todos[0].Title)
	assert.Equal(t, model.AchievementPending, todos[0].Level)
}

func TestReportAndExport(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	run(t, a, "segment Health")
	run(t, a, "add 1 stretch")
	run(t, a, "done 1")

	md, err := a.Report(ctx, 1, a.Today())
	require.NoError(t, err)
	assert.Contains(t, md, "# Health")
	assert.Contains(t, md, "Daily todos: 100%")

	_, err = a.Report(ctx, 7, a.Today())
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	var buf bytes.Buffer
	sum, err := a.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Segments)
	assert.Equal(t, 1, sum.Todos)
	assert.Equal(t, 1, sum.Evaluations)
	assert.Contains(t, buf.String(), "record,segment_id,segment")
}

func TestGenerateHabitTodosAcrossSegments(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	run(t, a, "segment Health")
	run(t, a, "segment Mind")
	run(t, a, "habit 1 stretch")
	run(t, a, "habit 2 read")

	tomorrow := a.Today().AddDays(1)
	n, err := a.GenerateHabitTodos(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = a.GenerateHabitTodos(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
