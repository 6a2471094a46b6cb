package tracker

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"go.uber.org/zap"
)

func (s *Service) CreateSegment(ctx context.Context, in model.Segment) (model.Segment, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Segment{}, err
	}
	in.CreatedAt = s.now()
	id, err := s.store.CreateSegment(ctx, in)
	if err != nil {
		return model.Segment{}, fmt.Errorf("create segment: %w", err)
	}
	in.ID = id
	s.log.Info("segment created", zap.Int64("segment_id", id), zap.String("name", in.Name))
	return in, nil
}

// UpdateSegment renames a segment or edits its goal and color.
func (s *Service) UpdateSegment(ctx context.Context, in model.Segment) (model.Segment, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Segment{}, err
	}
	current, err := s.store.GetSegment(ctx, in.ID)
	if err != nil {
		return model.Segment{}, notFound("segment", in.ID, err)
	}
	current.Name = in.Name
	current.OverallGoal = in.OverallGoal
	current.Color = in.Color
	if err := s.store.UpdateSegment(ctx, current); err != nil {
		return model.Segment{}, fmt.Errorf("update segment: %w", err)
	}
	return current, nil
}

// DeleteSegment removes the segment and, through cascading foreign keys,
// every row it owns including its activity points.
func (s *Service) DeleteSegment(ctx context.Context, id int64) error {
	if err := s.store.DeleteSegment(ctx, id); err != nil {
		return notFound("segment", id, err)
	}
	s.log.Info("segment deleted", zap.Int64("segment_id", id))
	return nil
}

func (s *Service) GetSegment(ctx context.Context, id int64) (model.Segment, error) {
	seg, err := s.store.GetSegment(ctx, id)
	if err != nil {
		return model.Segment{}, notFound("segment", id, err)
	}
	return seg, nil
}

func (s *Service) ListSegments(ctx context.Context) ([]model.Segment, error) {
	return s.store.ListSegments(ctx)
}

// ResetSegment clears a segment's tracked history (todos, milestones,
// habits, points, carryovers and evaluations). The segment and its
// discussion items stay.
func (s *Service) ResetSegment(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, id); err != nil {
			return err
		}
		return s.store.PurgeSegmentData(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("reset segment %d: %w", id, err)
	}
	s.log.Info("segment reset", zap.Int64("segment_id", id))
	return nil
}

// ResetAll is ResetSegment for every segment, in one transaction.
func (s *Service) ResetAll(ctx context.Context) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.PurgeSegmentData(ctx, 0)
	})
	if err != nil {
		return fmt.Errorf("reset all segments: %w", err)
	}
	s.log.Info("all segments reset")
	return nil
}
