package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
)

// GetPurpose returns the overall purpose, or the zero value when none has
// been saved yet.
func (s *Service) GetPurpose(ctx context.Context) (model.OverallPurpose, error) {
	p, err := s.store.GetPurpose(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return model.OverallPurpose{}, nil
	}
	return p, err
}

func (s *Service) SavePurpose(ctx context.Context, in model.OverallPurpose) (model.OverallPurpose, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.OverallPurpose{}, err
	}
	in.UpdatedAt = s.now()
	if err := s.store.SavePurpose(ctx, in); err != nil {
		return model.OverallPurpose{}, fmt.Errorf("save purpose: %w", err)
	}
	s.log.Debug("purpose saved")
	return in, nil
}
