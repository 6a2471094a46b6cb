package storage

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/sandeepkv93/goaltrack/internal/model"
)

const (
	discussionColumns = "id, segment_id, body, resolved, resolved_at, created_at"
	memoColumns       = "id, discussion_item_id, memo, created_at"
)

func (r *SQLiteRepository) CreateDiscussion(ctx context.Context, in model.DiscussionItem) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO discussion_items (segment_id, body, resolved, resolved_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.SegmentID, in.Body, boolInt(in.Resolved), nullTime(in.ResolvedAt), mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetDiscussion(ctx context.Context, id int64) (model.DiscussionItem, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+discussionColumns+` FROM discussion_items WHERE id = ?`, []any{id}, scanDiscussion)
}

func (r *SQLiteRepository) UpdateDiscussion(ctx context.Context, in model.DiscussionItem) error {
	return r.exec(ctx, `UPDATE discussion_items SET body = ?, resolved = ?, resolved_at = ? WHERE id = ?`,
		in.Body, boolInt(in.Resolved), nullTime(in.ResolvedAt), in.ID)
}

// DeleteDiscussion removes the item; its memos go through ON DELETE CASCADE.
func (r *SQLiteRepository) DeleteDiscussion(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM discussion_items WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListDiscussions(ctx context.Context, segmentID int64) ([]model.DiscussionItem, error) {
	b := squirrel.Select(discussionColumns).From("discussion_items").
		Where(squirrel.Eq{"segment_id": segmentID}).
		OrderBy("resolved ASC", "created_at DESC", "id DESC")
	return queryAll(ctx, r.q(ctx), b, scanDiscussion)
}

func (r *SQLiteRepository) CreateMemo(ctx context.Context, in model.DiscussionMemo) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO discussion_memos (discussion_item_id, memo, created_at)
		VALUES (?, ?, ?)`,
		in.DiscussionID, in.Memo, mustTime(in.CreatedAt),
	)
}

func (r *SQLiteRepository) GetMemo(ctx context.Context, id int64) (model.DiscussionMemo, error) {
	return queryOne(ctx, r.q(ctx), `SELECT `+memoColumns+` FROM discussion_memos WHERE id = ?`, []any{id}, scanMemo)
}

// UpdateMemo rewrites the memo text and restamps it, so an edited memo
// sorts as the newest.
func (r *SQLiteRepository) UpdateMemo(ctx context.Context, in model.DiscussionMemo) error {
	return r.exec(ctx, `UPDATE discussion_memos SET memo = ?, created_at = ? WHERE id = ?`,
		in.Memo, mustTime(in.CreatedAt), in.ID)
}

func (r *SQLiteRepository) DeleteMemo(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM discussion_memos WHERE id = ?`, id)
}

// ListMemos returns the memos of one discussion item, newest first.
func (r *SQLiteRepository) ListMemos(ctx context.Context, discussionID int64) ([]model.DiscussionMemo, error) {
	b := squirrel.Select(memoColumns).From("discussion_memos").
		Where(squirrel.Eq{"discussion_item_id": discussionID}).
		OrderBy("created_at DESC", "id DESC")
	return queryAll(ctx, r.q(ctx), b, scanMemo)
}

func scanDiscussion(s scanner) (model.DiscussionItem, error) {
	var out model.DiscussionItem
	var resolved int
	var resolvedAt sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.SegmentID, &out.Body, &resolved, &resolvedAt, &created); err != nil {
		return model.DiscussionItem{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.DiscussionItem{}, err
	}
	out.ResolvedAt, err = parseNullableTime(resolvedAt)
	if err != nil {
		return model.DiscussionItem{}, err
	}
	out.Resolved = resolved == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanMemo(s scanner) (model.DiscussionMemo, error) {
	var out model.DiscussionMemo
	var created string
	if err := s.Scan(&out.ID, &out.DiscussionID, &out.Memo, &created); err != nil {
		return model.DiscussionMemo{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.DiscussionMemo{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}
