// Package tracker owns every mutation of segments and their child rows.
// State changes that affect credit go through the ledger inside the same
// transaction as the row update.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/ledger"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	store  storage.Repository
	tx     TxRunner
	ledger *ledger.Ledger
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store storage.Repository, tx TxRunner, l *ledger.Ledger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, tx: tx, ledger: l, log: log, now: time.Now}
}

// WithClock overrides the source of created_at and completed_at stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func notFound(kind string, id int64, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", kind, id, err)
}

func (s *Service) requireSegment(ctx context.Context, id int64) error {
	if _, err := s.store.GetSegment(ctx, id); err != nil {
		return notFound("segment", id, err)
	}
	return nil
}

func (s *Service) stamp(done bool) *time.Time {
	if !done {
		return nil
	}
	ts := s.now()
	return &ts
}
