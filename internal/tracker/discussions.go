package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

func (s *Service) AddDiscussion(ctx context.Context, segmentID int64, body string) (model.DiscussionItem, error) {
	item := model.DiscussionItem{SegmentID: segmentID, Body: body}
	if err := item.Validate(); err != nil {
		return model.DiscussionItem{}, err
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireSegment(ctx, segmentID); err != nil {
			return err
		}
		item.CreatedAt = s.now()
		id, err := s.store.CreateDiscussion(ctx, item)
		if err != nil {
			return fmt.Errorf("create discussion item: %w", err)
		}
		item.ID = id
		return nil
	})
	return item, err
}

func (s *Service) ResolveDiscussion(ctx context.Context, id int64, resolved bool) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := s.store.GetDiscussion(ctx, id)
		if err != nil {
			return notFound("discussion item", id, err)
		}
		if item.Resolved == resolved {
			return nil
		}
		item.Resolved = resolved
		item.ResolvedAt = s.stamp(resolved)
		return s.store.UpdateDiscussion(ctx, item)
	})
}

func (s *Service) DeleteDiscussion(ctx context.Context, id int64) error {
	if err := s.store.DeleteDiscussion(ctx, id); err != nil {
		return notFound("discussion item", id, err)
	}
	return nil
}

func (s *Service) ListDiscussions(ctx context.Context, segmentID int64) ([]model.DiscussionItem, error) {
	return s.store.ListDiscussions(ctx, segmentID)
}

// DeleteDiscussions clears every discussion item of a segment.
func (s *Service) DeleteDiscussions(ctx context.Context, segmentID int64) (int, error) {
	removed := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		items, err := s.store.ListDiscussions(ctx, segmentID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.store.DeleteDiscussion(ctx, item.ID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// AddMemo attaches a follow-up note to a discussion item.
func (s *Service) AddMemo(ctx context.Context, discussionID int64, text string) (model.DiscussionMemo, error) {
	memo := model.DiscussionMemo{DiscussionID: discussionID, Memo: strings.TrimSpace(text)}
	if err := memo.Validate(); err != nil {
		return model.DiscussionMemo{}, err
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetDiscussion(ctx, discussionID); err != nil {
			return notFound("discussion item", discussionID, err)
		}
		memo.CreatedAt = s.now()
		id, err := s.store.CreateMemo(ctx, memo)
		if err != nil {
			return fmt.Errorf("create memo: %w", err)
		}
		memo.ID = id
		return nil
	})
	return memo, err
}

func (s *Service) UpdateMemo(ctx context.Context, id int64, text string) (model.DiscussionMemo, error) {
	var out model.DiscussionMemo
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		memo, err := s.store.GetMemo(ctx, id)
		if err != nil {
			return notFound("memo", id, err)
		}
		memo.Memo = strings.TrimSpace(text)
		if err := memo.Validate(); err != nil {
			return err
		}
		memo.CreatedAt = s.now()
		if err := s.store.UpdateMemo(ctx, memo); err != nil {
			return err
		}
		out = memo
		return nil
	})
	return out, err
}

func (s *Service) DeleteMemo(ctx context.Context, id int64) error {
	if err := s.store.DeleteMemo(ctx, id); err != nil {
		return notFound("memo", id, err)
	}
	return nil
}

func (s *Service) ListMemos(ctx context.Context, discussionID int64) ([]model.DiscussionMemo, error) {
	return s.store.ListMemos(ctx, discussionID)
}
