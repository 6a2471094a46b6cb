// Package carryover offers recent unfinished todos for replay on today's
// list and records which ones were carried.
package carryover

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

const DefaultLookbackDays = 7

type Store interface {
	ListCarryoverCandidates(ctx context.Context, from, before model.Date) ([]storage.CandidateRow, error)
	ListCarryoverRecords(ctx context.Context, carriedOverDate model.Date) ([]model.CarryoverRecord, error)
	CreateCarryoverRecord(ctx context.Context, in model.CarryoverRecord) (int64, error)
	CreateTodo(ctx context.Context, in model.Todo) (int64, error)
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Candidate is an unfinished todo that may be carried to today.
type Candidate struct {
	ID           int64
	Title        string
	Date         model.Date
	Kind         model.TodoKind
	SegmentID    int64
	SegmentName  string
	SegmentColor string
}

func (c Candidate) Key() model.CarryoverKey {
	return model.KeyFor(c.SegmentID, c.Title)
}

func (c Candidate) Ref() CandidateRef {
	return CandidateRef{ID: c.ID, Title: c.Title, Date: c.Date, SegmentID: c.SegmentID}
}

// CandidateRef is what the caller sends back to carry a candidate.
type CandidateRef struct {
	ID        int64
	Title     string
	Date      model.Date
	SegmentID int64
}

func (r CandidateRef) validate() error {
	switch {
	case r.ID <= 0:
		return model.Invalid("id", "must be positive")
	case r.SegmentID <= 0:
		return model.Invalid("segment_id", "must be positive")
	case model.NormalizeTitle(r.Title) == "":
		return model.Invalid("title", "is required")
	case !r.Date.IsValid():
		return model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", r.Date))
	}
	return nil
}

// Result reports a carryover batch. Skipped counts refs whose key had
// already been carried to the same day.
type Result struct {
	Success bool
	Count   int
	Skipped int
}

func (r Result) Summary(today model.Date) string {
	msg := fmt.Sprintf("carried %d todo(s) to %s", r.Count, today)
	if r.Skipped > 0 {
		msg += fmt.Sprintf(", %d already carried", r.Skipped)
	}
	return msg
}

type Service struct {
	store        Store
	tx           TxRunner
	log          *zap.Logger
	lookbackDays int
	now          func() time.Time
}

func NewService(store Store, tx TxRunner, log *zap.Logger, lookbackDays int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Service{store: store, tx: tx, log: log, lookbackDays: lookbackDays, now: time.Now}
}

// WithClock overrides the created_at stamp of written rows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FindCandidates lists unfinished daily and weekly todos from the lookback
// days before today, one per (segment, title) key, minus keys already
// carried to today. Today's own todos are never candidates.
func (s *Service) FindCandidates(ctx context.Context, today model.Date) ([]Candidate, error) {
	if !today.IsValid() {
		return nil, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", today))
	}
	rows, err := s.store.ListCarryoverCandidates(ctx, today.AddDays(-s.lookbackDays), today)
	if err != nil {
		return nil, fmt.Errorf("list carryover candidates: %w", err)
	}
	carried, err := s.carriedKeys(ctx, today)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{
			ID:           row.TodoID,
			Title:        row.Title,
			Date:         row.Date,
			Kind:         row.Kind,
			SegmentID:    row.SegmentID,
			SegmentName:  row.SegmentName,
			SegmentColor: row.SegmentColor,
		})
	}
	out := Dedupe(candidates, carried)
	s.log.Debug("carryover candidates", zap.String("today", today.String()),
		zap.Int("rows", len(rows)), zap.Int("candidates", len(out)))
	return out, nil
}

func (s *Service) carriedKeys(ctx context.Context, today model.Date) (map[model.CarryoverKey]struct{}, error) {
	records, err := s.store.ListCarryoverRecords(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list carryover records: %w", err)
	}
	keys := make(map[model.CarryoverKey]struct{}, len(records))
	for _, r := range records {
		keys[model.KeyFor(r.SegmentID, r.OriginalTitle)] = struct{}{}
	}
	return keys, nil
}

// Dedupe keeps the most recent candidate per key, drops keys found in
// carried, and sorts by date descending, then segment name, then title.
func Dedupe(candidates []Candidate, carried map[model.CarryoverKey]struct{}) []Candidate {
	latest := make(map[model.CarryoverKey]Candidate, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if _, ok := carried[key]; ok {
			continue
		}
		prev, ok := latest[key]
		if !ok || c.Date.After(prev.Date) || (c.Date == prev.Date && c.ID > prev.ID) {
			latest[key] = c
		}
	}

	out := make([]Candidate, 0, len(latest))
	for _, c := range latest {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		return cmp.Or(
			cmp.Compare(b.Date, a.Date),
			cmp.Compare(a.SegmentName, b.SegmentName),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(b.ID, a.ID),
		)
	})
	return out
}

// Record carries selected to today in one transaction: an audit record and
// a new pending daily todo per candidate. Keys already carried to today are
// skipped. Nothing is written if any insert fails.
func (s *Service) Record(ctx context.Context, selected []CandidateRef, today model.Date) (Result, error) {
	if !today.IsValid() {
		return Result{}, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", today))
	}
	for _, ref := range selected {
		if err := ref.validate(); err != nil {
			return Result{}, err
		}
	}
	if len(selected) == 0 {
		return Result{Success: true}, nil
	}

	count, skipped := 0, 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		carried, err := s.carriedKeys(ctx, today)
		if err != nil {
			return err
		}
		count, skipped = 0, 0
		for _, ref := range selected {
			key := model.KeyFor(ref.SegmentID, ref.Title)
			if _, ok := carried[key]; ok {
				s.log.Debug("carryover skipped", zap.Int64("todo_id", ref.ID), zap.String("title", ref.Title))
				skipped++
				continue
			}
			if err := s.carry(ctx, ref, today); err != nil {
				return fmt.Errorf("carry todo %d: %w", ref.ID, err)
			}
			carried[key] = struct{}{}
			count++
		}
		return nil
	})
	if err != nil {
		s.log.Warn("carryover batch rolled back", zap.String("today", today.String()),
			zap.Int("selected", len(selected)), zap.Error(err))
		return Result{}, err
	}
	s.log.Info("carryover recorded", zap.String("today", today.String()),
		zap.Int("count", count), zap.Int("skipped", skipped))
	return Result{Success: true, Count: count, Skipped: skipped}, nil
}

func (s *Service) carry(ctx context.Context, ref CandidateRef, today model.Date) error {
	now := s.now()
	if _, err := s.store.CreateCarryoverRecord(ctx, model.CarryoverRecord{
		SegmentID:       ref.SegmentID,
		OriginalTodoID:  ref.ID,
		OriginalTitle:   ref.Title,
		OriginalDate:    ref.Date,
		CarriedOverDate: today,
		CreatedAt:       now,
	}); err != nil {
		return fmt.Errorf("create carryover record: %w", err)
	}

	todo := model.Todo{
		SegmentID: ref.SegmentID,
		Title:     ref.Title,
		Date:      today,
		Kind:      model.TodoKindDaily,
		Level:     model.AchievementPending,
		CreatedAt: now,
	}
	todo.Normalize()
	if err := todo.Validate(); err != nil {
		return err
	}
	if _, err := s.store.CreateTodo(ctx, todo); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}
