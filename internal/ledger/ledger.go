// Package ledger keeps activity points in step with completion state.
//
// Exactly one point exists per (source kind, source id, date) while the
// source is achieved, and none otherwise. Every write runs inside a
// transaction; callers that already hold one pass its context and the
// ledger joins it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

type Store interface {
	FindActivityPoint(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (model.ActivityPoint, error)
	CreateActivityPoint(ctx context.Context, in model.ActivityPoint) (int64, error)
	DeleteActivityPoints(ctx context.Context, source model.SourceKind, sourceID int64, date model.Date) (int64, error)
	DeleteActivityPointsBySource(ctx context.Context, source model.SourceKind, sourceID int64) (int64, error)
	SumActivityPoints(ctx context.Context, filter storage.ActivityFilter) (int, error)
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Transition describes a source entering or leaving its achieved state.
type Transition struct {
	Source         model.SourceKind
	SourceID       int64
	SegmentID      int64
	Date           model.Date
	BecameAchieved bool
	Description    string
}

func (t Transition) validate() error {
	switch {
	case !t.Source.IsValid():
		return model.Invalid("source", fmt.Sprintf("%q is not a source kind", t.Source))
	case t.SourceID <= 0:
		return model.Invalid("source_id", "must be positive")
	case t.SegmentID <= 0:
		return model.Invalid("segment_id", "must be positive")
	case !t.Date.IsValid():
		return model.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", t.Date))
	}
	return nil
}

type Ledger struct {
	store Store
	tx    TxRunner
	log   *zap.Logger
	now   func() time.Time
}

func New(store Store, tx TxRunner, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, tx: tx, log: log, now: time.Now}
}

// WithClock overrides the timestamp source used for created_at.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// RecordTransition awards or revokes the point for t's source key.
// Awarding is a no-op when the point already exists; revoking removes only
// the row of that exact key.
func (l *Ledger) RecordTransition(ctx context.Context, t Transition) error {
	if err := t.validate(); err != nil {
		return err
	}
	return l.tx.RunInTx(ctx, func(ctx context.Context) error {
		if t.BecameAchieved {
			return l.award(ctx, t)
		}
		return l.revoke(ctx, t)
	})
}

func (l *Ledger) award(ctx context.Context, t Transition) error {
	_, err := l.store.FindActivityPoint(ctx, t.Source, t.SourceID, t.Date)
	if err == nil {
		l.log.Debug("activity point already recorded",
			zap.String("source", string(t.Source)), zap.Int64("source_id", t.SourceID), zap.String("date", t.Date.String()))
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("find activity point: %w", err)
	}
	if _, err := l.store.CreateActivityPoint(ctx, model.ActivityPoint{
		SegmentID:   t.SegmentID,
		Date:        t.Date,
		Points:      1,
		Source:      t.Source,
		SourceID:    t.SourceID,
		Description: t.Description,
		CreatedAt:   l.now(),
	}); err != nil {
		return fmt.Errorf("create activity point: %w", err)
	}
	return nil
}

func (l *Ledger) revoke(ctx context.Context, t Transition) error {
	if _, err := l.store.DeleteActivityPoints(ctx, t.Source, t.SourceID, t.Date); err != nil {
		return fmt.Errorf("delete activity point: %w", err)
	}
	return nil
}

// PurgeSource removes every point earned by one source, on any date.
func (l *Ledger) PurgeSource(ctx context.Context, source model.SourceKind, sourceID int64) error {
	return l.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := l.store.DeleteActivityPointsBySource(ctx, source, sourceID)
		if err != nil {
			return fmt.Errorf("purge activity points: %w", err)
		}
		if n > 0 {
			l.log.Debug("purged activity points",
				zap.String("source", string(source)), zap.Int64("source_id", sourceID), zap.Int64("rows", n))
		}
		return nil
	})
}

// TotalPoints sums every point of a segment, across all dates.
func (l *Ledger) TotalPoints(ctx context.Context, segmentID int64) (int, error) {
	return l.store.SumActivityPoints(ctx, storage.ActivityFilter{SegmentID: segmentID})
}
