package tracker

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/goaltrack/internal/model"
)

func (s *Service) AddBucketItem(ctx context.Context, in model.BucketListItem) (model.BucketListItem, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.BucketListItem{}, err
	}
	in.Completed, in.CompletedAt = false, nil
	in.CreatedAt = s.now()
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := s.store.CreateBucketItem(ctx, in)
		if err != nil {
			return fmt.Errorf("create bucket item: %w", err)
		}
		in, err = s.store.GetBucketItem(ctx, id)
		return err
	})
	return in, err
}

// UpdateBucketItem rewrites title and description only.
func (s *Service) UpdateBucketItem(ctx context.Context, id int64, title, description string) (model.BucketListItem, error) {
	var out model.BucketListItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := s.store.GetBucketItem(ctx, id)
		if err != nil {
			return notFound("bucket item", id, err)
		}
		item.Title, item.Description = title, description
		item.Normalize()
		if err := item.Validate(); err != nil {
			return err
		}
		if err := s.store.UpdateBucketItem(ctx, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	return out, err
}

// ToggleBucketItem flips completion and stamps or clears completed_at.
func (s *Service) ToggleBucketItem(ctx context.Context, id int64) (model.BucketListItem, error) {
	var out model.BucketListItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := s.store.GetBucketItem(ctx, id)
		if err != nil {
			return notFound("bucket item", id, err)
		}
		item.Completed = !item.Completed
		item.CompletedAt = s.stamp(item.Completed)
		if err := s.store.UpdateBucketItem(ctx, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	return out, err
}

func (s *Service) DeleteBucketItem(ctx context.Context, id int64) error {
	if err := s.store.DeleteBucketItem(ctx, id); err != nil {
		return notFound("bucket item", id, err)
	}
	return nil
}

func (s *Service) ListBucketItems(ctx context.Context) ([]model.BucketListItem, error) {
	return s.store.ListBucketItems(ctx)
}

// ReorderBucketItems moves the listed items to the front in the given
// order. Unknown ids fail the whole reorder.
func (s *Service) ReorderBucketItems(ctx context.Context, ids []int64) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				return model.Invalid("ids", fmt.Sprintf("bucket item %d listed twice", id))
			}
			seen[id] = true
			if _, err := s.store.GetBucketItem(ctx, id); err != nil {
				return notFound("bucket item", id, err)
			}
		}
		return s.store.ReorderBucketItems(ctx, ids)
	})
}
