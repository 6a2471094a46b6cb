package storage

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const bucketColumns = "id, title, description, completed, display_order, completed_at, created_at"

// CreateBucketItem appends in after the last item of the list.
func (r *SQLiteRepository) CreateBucketItem(ctx context.Context, in model.BucketListItem) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO bucket_list_items (title, description, completed, display_order, completed_at, created_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM bucket_list_items), ?, ?)`,
		in.Title, in.Description, boolInt(in.Completed), nullTime(in.CompletedAt), mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetBucketItem(ctx context.Context, id int64) (model.BucketListItem, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+bucketColumns+` FROM bucket_list_items WHERE id = ?`, []any{id}, scanBucketItem)
}

func (r *SQLiteRepository) UpdateBucketItem(ctx context.Context, in model.BucketListItem) error {
	return r.exec(ctx, `
		UPDATE bucket_list_items
		SET title = ?, description = ?, completed = ?, display_order = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Description, boolInt(in.Completed), in.DisplayOrder, nullTime(in.CompletedAt), in.ID,
	)
}

func (r *SQLiteRepository) DeleteBucketItem(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM bucket_list_items WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListBucketItems(ctx context.Context) ([]model.BucketListItem, error) {
	b := squirrel.Select(bucketColumns).From("bucket_list_items").OrderBy("display_order ASC", "id ASC")
	return queryAll(ctx, r.q(ctx), b, scanBucketItem)
}

// ReorderBucketItems assigns display_order 1..n following ids. Items not
// named keep their order after the listed ones.
func (r *SQLiteRepository) ReorderBucketItems(ctx context.Context, ids []int64) error {
	offset := len(ids)
	if _, err := r.q(ctx).ExecContext(ctx,
		`UPDATE bucket_list_items SET display_order = display_order + ?`, offset); err != nil {
		return err
	}
	for i, id := range ids {
		if err := r.exec(ctx, `UPDATE bucket_list_items SET display_order = ? WHERE id = ?`, i+1, id); err != nil {
			return err
		}
	}
	return nil
}

func scanBucketItem(s scanner) (model.BucketListItem, error) {
	var out model.BucketListItem
	var completed int
	var completedAt sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &completed, &out.DisplayOrder, &completedAt, &created); err != nil {
		return model.BucketListItem{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.BucketListItem{}, err
	}
	out.CompletedAt, err = parseNullableTime(completedAt)
	if err != nil {
		return model.BucketListItem{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	return out, nil
}
