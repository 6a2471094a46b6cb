// Package app wires configuration, logging, storage and the tracker engines
// into one handle shared by the command line and the terminal UI.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/carryover"
	"github.com/sandeepkv93/goaltrack/internal/config"
	"github.com/sandeepkv93/goaltrack/internal/evaluation"
	"github.com/sandeepkv93/goaltrack/internal/export"
	"github.com/sandeepkv93/goaltrack/internal/ledger"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"github.com/sandeepkv93/goaltrack/internal/tracker"
	"github.com/sandeepkv93/goaltrack/internal/views"
	"go.uber.org/zap"
)

type App struct {
	Config     *config.Config
	Log        *zap.Logger
	Repo       *storage.SQLiteRepository
	Ledger     *ledger.Ledger
	Tracker    *tracker.Service
	Evaluation *evaluation.Service
	Carryover  *carryover.Service

	now func() time.Time
}

// New opens the database named in cfg, applies migrations and builds the
// services on top of it. A nil log discards output.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	if log == nil {
		log = zap.NewNop()
	}
	repo, err := storage.OpenSQLite(ctx, cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	tx := storage.NewTxManager(repo.DB())
	l := ledger.New(repo, tx, log.Named("ledger"))

	a := &App{
		Config:     cfg,
		Log:        log,
		Repo:       repo,
		Ledger:     l,
		Tracker:    tracker.NewService(repo, tx, l, log.Named("tracker")),
		Evaluation: evaluation.NewService(repo, tx, log.Named("evaluation"), cfg.Evaluation.WindowDays),
		Carryover:  carryover.NewService(repo, tx, log.Named("carryover"), cfg.Carryover.LookbackDays),
		now:        time.Now,
	}
	log.Info("database opened", zap.String("path", cfg.Database.Path))
	return a, nil
}

// WithClock replaces the clock of the app and every service it owns.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	a.Ledger.WithClock(now)
	a.Tracker.WithClock(now)
	a.Evaluation.WithClock(now)
	a.Carryover.WithClock(now)
	return a
}

// Today is the local calendar date.
func (a *App) Today() model.Date {
	return model.DateOf(a.now())
}

func (a *App) Close() error {
	return a.Repo.Close()
}

// Bound limits ctx to the configured per-operation timeout.
func (a *App) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.Database.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.Config.Database.OpTimeout)
}

func (a *App) ListSegments(ctx context.Context) ([]model.Segment, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Tracker.ListSegments(ctx)
}

func (a *App) SegmentPoints(ctx context.Context, segmentID int64) (int, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Ledger.TotalPoints(ctx, segmentID)
}

func (a *App) ListTodos(ctx context.Context, segmentID int64, date model.Date) ([]model.Todo, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Tracker.ListTodos(ctx, segmentID, date)
}

func (a *App) ToggleTodo(ctx context.Context, id int64) (model.Todo, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Tracker.ToggleTodo(ctx, id)
}

func (a *App) DeleteTodo(ctx context.Context, id int64) error {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Tracker.DeleteTodo(ctx, id)
}

// GenerateHabitTodos creates today's habit todos in every segment.
func (a *App) GenerateHabitTodos(ctx context.Context, date model.Date) (int, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Tracker.GenerateAllHabitTodos(ctx, date)
}

func (a *App) FindCarryover(ctx context.Context, today model.Date) ([]carryover.Candidate, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Carryover.FindCandidates(ctx, today)
}

func (a *App) RecordCarryover(ctx context.Context, refs []carryover.CandidateRef, today model.Date) (carryover.Result, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return a.Carryover.Record(ctx, refs, today)
}

// Report computes the evaluation for segmentID on date and returns it as
// markdown.
func (a *App) Report(ctx context.Context, segmentID int64, date model.Date) (string, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	seg, err := a.Tracker.GetSegment(ctx, segmentID)
	if err != nil {
		return "", err
	}
	snap, err := a.Evaluation.ComputeEvaluation(ctx, segmentID, date)
	if err != nil {
		return "", err
	}
	return views.EvaluationMarkdown(ReportData(seg, snap, a.Evaluation.WindowStart(date))), nil
}

// ReportData maps a snapshot onto the report view.
func ReportData(seg model.Segment, snap evaluation.Snapshot, windowStart model.Date) views.EvaluationReportData {
	return views.EvaluationReportData{
		SegmentName:         seg.Name,
		Date:                snap.Date.String(),
		WindowStart:         windowStart.String(),
		MilestoneRate:       snap.MilestoneRate(),
		DailyRate:           snap.DailyRate(),
		WeeklyRate:          snap.WeeklyRate(),
		ActivityVolume:      snap.ActivityVolume,
		TaskValidity:        snap.TaskValidity(),
		TotalMilestones:     snap.Milestones.Total,
		EvaluatedMilestones: snap.Milestones.Evaluated,
		EvaluatedTasks:      snap.EvaluatedTasks,
		OnTimeTasks:         snap.OnTimeTasks,
		OverdueTasks:        snap.OverdueTasks,
	}
}

func (a *App) Export(ctx context.Context, w io.Writer) (export.Summary, error) {
	ctx, cancel := a.Bound(ctx)
	defer cancel()
	return export.Write(ctx, a.Repo, w)
}
