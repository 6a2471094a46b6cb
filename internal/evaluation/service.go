package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

const DefaultWindowDays = 30

// errSkipStore ends the transaction without writing.
var errSkipStore = errors.New("evaluation: segment not found")

// Store is the slice of the repository the engine reads and writes.
type Store interface {
	GetSegment(ctx context.Context, id int64) (model.Segment, error)
	ListSegments(ctx context.Context) ([]model.Segment, error)
	ListMilestones(ctx context.Context, filter storage.MilestoneFilter) ([]model.Milestone, error)
	ListTodos(ctx context.Context, filter storage.TodoFilter) ([]model.Todo, error)
	SumActivityPoints(ctx context.Context, filter storage.ActivityFilter) (int, error)
	UpsertEvaluation(ctx context.Context, in model.Evaluation) error
	ListEvaluations(ctx context.Context, filter storage.EvaluationFilter) ([]model.Evaluation, error)
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	store      Store
	tx         TxRunner
	log        *zap.Logger
	windowDays int
	now        func() time.Time
}

func NewService(store Store, tx TxRunner, log *zap.Logger, windowDays int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Service{store: store, tx: tx, log: log, windowDays: windowDays, now: time.Now}
}

// WithClock overrides the created_at stamp of new snapshot rows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WindowStart is the first day of the window ending on asOf.
func (s *Service) WindowStart(asOf model.Date) model.Date {
	return asOf.AddDays(-(s.windowDays - 1))
}

// ComputeEvaluation evaluates segmentID as of asOf and stores the result,
// replacing any snapshot for the same day. A segment with no rows yields a
// zero snapshot; an unknown segment yields one too, and nothing is stored.
func (s *Service) ComputeEvaluation(ctx context.Context, segmentID int64, asOf model.Date) (Snapshot, error) {
	if segmentID <= 0 {
		return Snapshot{}, model.Invalid("segment_id", "must be positive")
	}
	if !asOf.IsValid() {
		return Snapshot{}, model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", asOf))
	}

	var snap Snapshot
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetSegment(ctx, segmentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				snap = Compute(Inputs{SegmentID: segmentID, AsOf: asOf})
				return errSkipStore
			}
			return fmt.Errorf("get segment %d: %w", segmentID, err)
		}
		in, err := s.gather(ctx, segmentID, asOf)
		if err != nil {
			return err
		}
		snap = Compute(in)
		if err := s.store.UpsertEvaluation(ctx, snap.Record(s.now())); err != nil {
			return fmt.Errorf("upsert evaluation: %w", err)
		}
		return nil
	})
	if errors.Is(err, errSkipStore) {
		s.log.Debug("evaluation of unknown segment", zap.Int64("segment_id", segmentID))
		return snap, nil
	}
	if err != nil {
		return Snapshot{}, err
	}

	s.log.Info("evaluation computed",
		zap.Int64("segment_id", segmentID),
		zap.String("date", asOf.String()),
		zap.Float64("milestone_rate", snap.MilestoneRate()),
		zap.Float64("daily_rate", snap.DailyRate()),
		zap.Float64("weekly_rate", snap.WeeklyRate()),
		zap.Int("activity_volume", snap.ActivityVolume),
		zap.Float64("task_validity", snap.TaskValidity()),
	)
	return snap, nil
}

func (s *Service) gather(ctx context.Context, segmentID int64, asOf model.Date) (Inputs, error) {
	from := s.WindowStart(asOf)
	in := Inputs{SegmentID: segmentID, AsOf: asOf}

	milestones, err := s.store.ListMilestones(ctx, storage.MilestoneFilter{SegmentID: segmentID, DueTo: asOf})
	if err != nil {
		return Inputs{}, fmt.Errorf("list milestones: %w", err)
	}
	in.Milestones = milestones

	todos, err := s.store.ListTodos(ctx, storage.TodoFilter{SegmentID: segmentID, From: from, To: asOf})
	if err != nil {
		return Inputs{}, fmt.Errorf("list todos: %w", err)
	}
	for _, t := range todos {
		switch t.Kind {
		case model.TodoKindDaily:
			in.DailyTodos = append(in.DailyTodos, t)
		case model.TodoKindWeekly:
			in.WeeklyTodos = append(in.WeeklyTodos, t)
		}
	}

	in.ActivityVolume, err = s.store.SumActivityPoints(ctx, storage.ActivityFilter{SegmentID: segmentID, From: from, To: asOf})
	if err != nil {
		return Inputs{}, fmt.Errorf("sum activity points: %w", err)
	}
	return in, nil
}

// ComputeAll evaluates every segment as of asOf and stops at the first
// failure.
func (s *Service) ComputeAll(ctx context.Context, asOf model.Date) ([]Snapshot, error) {
	segments, err := s.store.ListSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	out := make([]Snapshot, 0, len(segments))
	for _, seg := range segments {
		snap, err := s.ComputeEvaluation(ctx, seg.ID, asOf)
		if err != nil {
			return out, fmt.Errorf("segment %d: %w", seg.ID, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// History returns stored snapshots of a segment between from and to,
// newest first. Empty bounds are open.
func (s *Service) History(ctx context.Context, segmentID int64, from, to model.Date) ([]model.Evaluation, error) {
	return s.store.ListEvaluations(ctx, storage.EvaluationFilter{SegmentID: segmentID, From: from, To: to})
}

// Latest returns the newest stored snapshot of a segment on or before asOf.
func (s *Service) Latest(ctx context.Context, segmentID int64, asOf model.Date) (model.Evaluation, error) {
	rows, err := s.store.ListEvaluations(ctx, storage.EvaluationFilter{SegmentID: segmentID, To: asOf, Limit: 1})
	if err != nil {
		return model.Evaluation{}, err
	}
	if len(rows) == 0 {
		return model.Evaluation{}, fmt.Errorf("evaluation for segment %d: %w", segmentID, storage.ErrNotFound)
	}
	return rows[0], nil
}
