package tracker

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/goaltrack/internal/ledger"
	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/sandeepkv93/goaltrack/internal/storage"
	"go.uber.org/zap"
)

func (s *Service) CreateMilestone(ctx context.Context, in model.Milestone) (model.Milestone, error) {
	in.Level = model.AchievementPending
	in.Status = ""
	in.CompletedAt = nil
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Milestone{}, err
	}
	var out model.Milestone
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, in.SegmentID); err != nil {
			return err
		}
		in.CreatedAt = s.now()
		id, err := s.store.CreateMilestone(ctx, in)
		if err != nil {
			return fmt.Errorf("create milestone: %w", err)
		}
		in.ID = id
		out = in
		return nil
	})
	return out, err
}

// SetMilestoneAchievement updates status and level together and moves the
// milestone's point, dated on its target date.
func (s *Service) SetMilestoneAchievement(ctx context.Context, id int64, level model.AchievementLevel) (model.Milestone, error) {
	if !level.IsWritable() {
		return model.Milestone{}, model.Invalid("achievement_level", fmt.Sprintf("%q cannot be set", level))
	}
	var out model.Milestone
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, err := s.store.GetMilestone(ctx, id)
		if err != nil {
			return notFound("milestone", id, err)
		}
		achieved := level.Credited()
		m.Level = level
		m.Status = model.StatusForLevel(level)
		m.CompletedAt = s.stamp(achieved)
		if err := s.store.UpdateMilestone(ctx, m); err != nil {
			return fmt.Errorf("update milestone: %w", err)
		}
		if err := s.ledger.RecordTransition(ctx, ledger.Transition{
			Source:         model.SourceMilestone,
			SourceID:       m.ID,
			SegmentID:      m.SegmentID,
			Date:           m.TargetDate,
			BecameAchieved: achieved,
			Description:    m.Title,
		}); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return model.Milestone{}, err
	}
	s.log.Debug("milestone achievement set", zap.Int64("milestone_id", id), zap.String("level", string(level)))
	return out, nil
}

func (s *Service) ToggleMilestone(ctx context.Context, id int64) (model.Milestone, error) {
	var out model.Milestone
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, err := s.store.GetMilestone(ctx, id)
		if err != nil {
			return notFound("milestone", id, err)
		}
		next := model.AchievementAchieved
		if m.Status == model.MilestoneCompleted {
			next = model.AchievementPending
		}
		out, err = s.SetMilestoneAchievement(ctx, id, next)
		return err
	})
	return out, err
}

func (s *Service) DeleteMilestone(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.deleteMilestone(ctx, id)
	})
}

func (s *Service) deleteMilestone(ctx context.Context, id int64) error {
	if err := s.ledger.PurgeSource(ctx, model.SourceMilestone, id); err != nil {
		return err
	}
	if err := s.store.DeleteMilestone(ctx, id); err != nil {
		return notFound("milestone", id, err)
	}
	return nil
}

func (s *Service) ListMilestones(ctx context.Context, segmentID int64) ([]model.Milestone, error) {
	return s.store.ListMilestones(ctx, storage.MilestoneFilter{SegmentID: segmentID})
}

// DeleteMilestones removes every milestone of a segment with its credit.
func (s *Service) DeleteMilestones(ctx context.Context, segmentID int64) (int, error) {
	removed := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, segmentID); err != nil {
			return err
		}
		items, err := s.store.ListMilestones(ctx, storage.MilestoneFilter{SegmentID: segmentID})
		if err != nil {
			return err
		}
		for _, m := range items {
			if err := s.deleteMilestone(ctx, m.ID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("milestones deleted", zap.Int64("segment_id", segmentID), zap.Int("count", removed))
	return removed, nil
}
