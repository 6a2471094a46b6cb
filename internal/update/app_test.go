package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/goaltrack/internal/app"
	"github.com/sandeepkv93/goaltrack/internal/config"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/scheduler"
	"github.com/sandeepkv93/goaltrack/internal/storage"
)

var fixedNow = time.Date(2026, 2, 9, 18, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Database.Path = filepath.Join(t.TempDir(), "ui.db")
	a, err := app.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a.WithClock(func() time.Time { return fixedNow })
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.MarkdownStyle = "notty"
	return opts
}

func newTestModel(t *testing.T) (Model, *app.App) {
	t.Helper()
	a := newTestApp(t)
	return NewModel(a, nil, testOptions()), a
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func runCommand(m Model, line string) Model {
	return press(m, "/", line, "enter")
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewSegments {
		t.Fatalf("expected default view %q, got %q", ViewSegments, m.CurrentView)
	}
	if m.Today != model.Date("2026-02-09") {
		t.Fatalf("unexpected today: %s", m.Today)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Init() != nil {
		t.Fatal("expected no init command without a scheduler")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "2")
	if m.CurrentView != ViewToday {
		t.Fatalf("expected today view, got %q", m.CurrentView)
	}
	m = press(m, "3")
	if m.CurrentView != ViewCarryover {
		t.Fatalf("expected carryover view, got %q", m.CurrentView)
	}
	m = press(m, "1")
	if m.CurrentView != ViewSegments {
		t.Fatalf("expected segments view, got %q", m.CurrentView)
	}

	updated, _ := m.Update(SwitchViewMsg{View: ViewToday})
	m = updated.(Model)
	if m.CurrentView != ViewToday {
		t.Fatalf("expected today view from message, got %q", m.CurrentView)
	}
	updated, _ = m.Update(SwitchViewMsg{View: View("Unknown")})
	m = updated.(Model)
	if m.CurrentView != ViewToday {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	updated, cmd := m.Update(keyMsg("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestPaletteCreatesAndTogglesTodos(t *testing.T) {
	m, _ := newTestModel(t)
	m = runCommand(m, "segment Health")
	if m.Status.Text != "created segment #1 Health" || m.Palette.Active {
		t.Fatalf("unexpected state after segment: %+v palette=%v", m.Status, m.Palette.Active)
	}
	if len(m.Segments.Items) != 1 || m.Segments.Items[0].Name != "Health" {
		t.Fatalf("unexpected segments: %+v", m.Segments.Items)
	}

	m = runCommand(m, "add 1 stretch")
	if len(m.Todos.Items) != 1 || m.Todos.Items[0].Title != "stretch" {
		t.Fatalf("unexpected todos: %+v", m.Todos.Items)
	}

	m = press(m, "2", " ")
	if m.Status.Text != "todo #1 is achieved" {
		t.Fatalf("unexpected status after toggle: %+v", m.Status)
	}
	if m.Segments.Items[0].Points != 1 || m.Todos.Items[0].Level != model.AchievementAchieved {
		t.Fatalf("expected one point and an achieved todo: %+v %+v", m.Segments.Items[0], m.Todos.Items[0])
	}

	m = press(m, " ")
	if m.Segments.Items[0].Points != 0 || m.Todos.Items[0].Level != model.AchievementPending {
		t.Fatalf("expected the point revoked: %+v %+v", m.Segments.Items[0], m.Todos.Items[0])
	}

	m = press(m, "x")
	if len(m.Todos.Items) != 0 || m.Status.Text != "deleted todo #1" {
		t.Fatalf("expected todo deleted: %+v %+v", m.Todos.Items, m.Status)
	}
}

func TestPaletteErrorsLeaveStateIntact(t *testing.T) {
	m, _ := newTestModel(t)
	m = runCommand(m, "segment Health")

	m = runCommand(m, "add 9 orphan")
	if !m.Status.IsError || !errors.Is(m.LastError, storage.ErrNotFound) {
		t.Fatalf("expected not found error, got %v (%+v)", m.LastError, m.Status)
	}
	if m.Palette.Active || len(m.Segments.Items) != 1 || len(m.Todos.Items) != 0 {
		t.Fatalf("unexpected state after failed command: %+v", m)
	}

	m = runCommand(m, "bogus words")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command status, got %+v", m.Status)
	}

	m = press(m, "/", "segment half typed", "esc")
	if m.Palette.Active || len(m.Segments.Items) != 1 {
		t.Fatalf("expected palette closed without running: %+v", m.Segments.Items)
	}
}

func TestCarryoverSelectConfirmAndApply(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	seg, err := a.Tracker.CreateSegment(ctx, model.Segment{Name: "Health"})
	if err != nil {
		t.Fatalf("create segment: %v", err)
	}
	for _, title := range []string{"stale", "older"} {
		if _, err := a.Tracker.CreateTodo(ctx, model.Todo{SegmentID: seg.ID, Title: title, Date: "2026-02-08"}); err != nil {
			t.Fatalf("create todo: %v", err)
		}
	}

	m = press(m, "3")
	if len(m.Carryover.Items) != 2 || m.Status.Text != "2 todo(s) can be carried over" {
		t.Fatalf("unexpected carryover state: %+v %+v", m.Carryover.Items, m.Status)
	}

	m = press(m, "enter")
	if !m.Status.IsError || m.Carryover.Confirming {
		t.Fatalf("expected an error without a selection: %+v", m.Status)
	}

	m = press(m, " ", "enter")
	if !m.Carryover.Confirming {
		t.Fatal("expected confirm prompt")
	}
	if !strings.Contains(m.View(), "carry 1 todo(s) to today?") {
		t.Fatalf("missing confirm prompt in view: %q", m.View())
	}

	m = press(m, "n")
	if m.Carryover.Confirming || m.Status.Text != "carryover cancelled" {
		t.Fatalf("expected cancel: %+v", m.Status)
	}

	carried := m.Carryover.Items[0].Title
	m = press(m, "enter", "y")
	if m.CurrentView != ViewToday {
		t.Fatalf("expected today view after carryover, got %q", m.CurrentView)
	}
	if m.Status.Text != "carried 1 todo(s) to 2026-02-09" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if len(m.Todos.Items) != 1 || m.Todos.Items[0].Title != carried {
		t.Fatalf("expected %q on today's list: %+v", carried, m.Todos.Items)
	}

	m = press(m, "3")
	if len(m.Carryover.Items) != 1 || m.Carryover.Items[0].Title == carried {
		t.Fatalf("expected only the uncarried todo left: %+v", m.Carryover.Items)
	}
}

func TestCarryoverSelectAll(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	for _, name := range []string{"Health", "Mind"} {
		seg, err := a.Tracker.CreateSegment(ctx, model.Segment{Name: name})
		if err != nil {
			t.Fatalf("create segment: %v", err)
		}
		if _, err := a.Tracker.CreateTodo(ctx, model.Todo{SegmentID: seg.ID, Title: "review " + name, Date: "2026-02-07"}); err != nil {
			t.Fatalf("create todo: %v", err)
		}
	}

	m = press(m, "3", "a")
	if m.selectedCount() != 2 {
		t.Fatalf("expected all selected, got %d", m.selectedCount())
	}
	m = press(m, "a")
	if m.selectedCount() != 0 {
		t.Fatalf("expected selection cleared, got %d", m.selectedCount())
	}
	m = press(m, "a", "enter", "y")
	if m.Status.Text != "carried 2 todo(s) to 2026-02-09" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestEvaluationView(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "4")
	if m.CurrentView != ViewEvaluation || !m.Status.IsError || m.Status.Text != "no segment selected" {
		t.Fatalf("expected error without segments: %q %+v", m.CurrentView, m.Status)
	}

	m = runCommand(m, "segment Health")
	m = runCommand(m, "add 1 stretch")
	m = runCommand(m, "done 1")
	m = press(m, "1", "e")
	if m.CurrentView != ViewEvaluation || m.Evaluation.SegmentID != 1 {
		t.Fatalf("expected evaluation of segment 1: %q %+v", m.CurrentView, m.Evaluation)
	}
	if !strings.Contains(m.Evaluation.Markdown, "Daily todos: 100%") {
		t.Fatalf("unexpected report: %q", m.Evaluation.Markdown)
	}
	if !strings.Contains(m.View(), "evaluation: [e]recompute") {
		t.Fatalf("missing evaluation pane: %q", m.View())
	}
}

func TestDayRolloverGeneratesHabitTodos(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	seg, err := a.Tracker.CreateSegment(ctx, model.Segment{Name: "Health"})
	if err != nil {
		t.Fatalf("create segment: %v", err)
	}
	if _, err := a.Tracker.CreateHabit(ctx, model.HabitTodo{SegmentID: seg.ID, Title: "stretch"}); err != nil {
		t.Fatalf("create habit: %v", err)
	}

	engine := scheduler.NewEngine(4)
	m := NewModel(a, engine, testOptions())
	midnight := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	updated, cmd := m.Update(SchedulerEventMsg{Event: scheduler.Event{
		ID: scheduler.RolloverID, Kind: scheduler.KindDayRollover, Date: "2026-02-10", TriggerAt: midnight,
	}})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected to keep listening for scheduler events")
	}
	if m.Today != model.Date("2026-02-10") {
		t.Fatalf("expected new day, got %s", m.Today)
	}
	if m.Status.Text != "new day 2026-02-10: 1 habit todo(s) generated" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if len(m.Todos.Items) != 1 || !m.Todos.Items[0].FromHabit {
		t.Fatalf("expected the habit todo for the new day: %+v", m.Todos.Items)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected the next rollover queued, pending=%d", engine.Pending())
	}
	if m.CurrentView != ViewSegments {
		t.Fatalf("expected view unchanged without candidates, got %q", m.CurrentView)
	}
}

func TestDayRolloverOffersCarryover(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	seg, err := a.Tracker.CreateSegment(ctx, model.Segment{Name: "Health"})
	if err != nil {
		t.Fatalf("create segment: %v", err)
	}
	if _, err := a.Tracker.CreateTodo(ctx, model.Todo{SegmentID: seg.ID, Title: "unfinished", Date: "2026-02-09"}); err != nil {
		t.Fatalf("create todo: %v", err)
	}

	updated, _ := m.Update(SchedulerEventMsg{Event: scheduler.Event{
		Kind: scheduler.KindDayRollover, Date: "2026-02-10", TriggerAt: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}})
	m = updated.(Model)
	if m.CurrentView != ViewCarryover || len(m.Carryover.Items) != 1 {
		t.Fatalf("expected carryover offered: %q %+v", m.CurrentView, m.Carryover.Items)
	}
}

func TestInitSchedulesStartupEvents(t *testing.T) {
	a := newTestApp(t)
	engine := scheduler.NewEngine(4)
	m := NewModel(a, engine, testOptions())
	if m.Init() == nil {
		t.Fatal("expected a listen command")
	}
	if engine.Pending() != 2 {
		t.Fatalf("expected carryover check and rollover, pending=%d", engine.Pending())
	}

	opts := testOptions()
	opts.DayRollover = false
	engine = scheduler.NewEngine(4)
	m = NewModel(a, engine, opts)
	_ = m.Init()
	if engine.Pending() != 1 {
		t.Fatalf("expected only the carryover check, pending=%d", engine.Pending())
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _ := newTestModel(t)
	m = runCommand(m, "segment Health")
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"view: Segments", "today: 2026-02-09", "segment: Health", "status: all good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}

	m = press(m, "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "segments view:") || !strings.Contains(m.View(), "commands:") {
		t.Fatalf("expected help panel: %q", m.View())
	}
}
