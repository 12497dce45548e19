package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"inkwell/internal/domain"
)

// InteractionRepository applies membership changes. Every method runs as one
// transaction built from conditional statements (delete-if-present, then
// insert-on-conflict-do-nothing), so concurrent toggles never lose an update
// and both sides of a relationship always agree.
type InteractionRepository interface {
	ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error)
	ToggleBookmark(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error)
	ToggleFollow(ctx context.Context, followerID, followeeID uuid.UUID) (domain.ToggleOutcome, error)
	RecordView(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error)
}

type interactionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// toggleStatements describes one relationship table and the counters that
// mirror it. Statements take ($1, $2) = (owner key, member key); counters take
// ($1 = delta, $2 = row id) and return the new value. When set, lock runs
// first with the same arguments and must take every counter row lock in a
// fixed order.
type toggleStatements struct {
	lock     string
	remove   string
	insert   string
	counters []counterStatement
}

type counterStatement struct {
	update string
	read   string
	id     func(a, b uuid.UUID) uuid.UUID
}

var (
	likeToggle = toggleStatements{
		remove: `DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`,
		insert: `INSERT INTO blog_likes (blog_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		counters: []counterStatement{{
			update: `UPDATE blogs SET likes_count = GREATEST(likes_count + $1, 0), updated_at = NOW() WHERE blog_id = $2 RETURNING likes_count`,
			read:   `SELECT likes_count FROM blogs WHERE blog_id = $1`,
			id:     first,
		}},
	}

	bookmarkToggle = toggleStatements{
		remove: `DELETE FROM blog_bookmarks WHERE blog_id = $1 AND user_id = $2`,
		insert: `INSERT INTO blog_bookmarks (blog_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		counters: []counterStatement{{
			update: `UPDATE blogs SET bookmarks_count = GREATEST(bookmarks_count + $1, 0), updated_at = NOW() WHERE blog_id = $2 RETURNING bookmarks_count`,
			read:   `SELECT bookmarks_count FROM blogs WHERE blog_id = $1`,
			id:     first,
		}},
	}

	// The row is keyed (followee, follower) so the reported count is the
	// target's followers_count. Both user rows are locked in id order up front:
	// A following B and B following A touch the same two rows, and updating
	// followee before follower would lock them in opposite orders.
	followToggle = toggleStatements{
		lock:   `SELECT user_id FROM users WHERE user_id IN ($1, $2) ORDER BY user_id FOR NO KEY UPDATE`,
		remove: `DELETE FROM follows WHERE followee_id = $1 AND follower_id = $2`,
		insert: `INSERT INTO follows (followee_id, follower_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		counters: []counterStatement{
			{
				update: `UPDATE users SET followers_count = GREATEST(followers_count + $1, 0), updated_at = NOW() WHERE user_id = $2 RETURNING followers_count`,
				read:   `SELECT followers_count FROM users WHERE user_id = $1`,
				id:     first,
			},
			{
				update: `UPDATE users SET following_count = GREATEST(following_count + $1, 0), updated_at = NOW() WHERE user_id = $2 RETURNING following_count`,
				read:   `SELECT following_count FROM users WHERE user_id = $1`,
				id:     second,
			},
		},
	}
)

func first(a, _ uuid.UUID) uuid.UUID  { return a }
func second(_, b uuid.UUID) uuid.UUID { return b }

func (r *interactionRepository) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	return r.toggle(ctx, likeToggle, blogID, userID)
}

func (r *interactionRepository) ToggleBookmark(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	return r.toggle(ctx, bookmarkToggle, blogID, userID)
}

func (r *interactionRepository) ToggleFollow(ctx context.Context, followerID, followeeID uuid.UUID) (domain.ToggleOutcome, error) {
	return r.toggle(ctx, followToggle, followeeID, followerID)
}

func (r *interactionRepository) toggle(ctx context.Context, stmts toggleStatements, owner, member uuid.UUID) (domain.ToggleOutcome, error) {
	var out domain.ToggleOutcome

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if stmts.lock != "" {
			if _, err := tx.ExecContext(ctx, stmts.lock, owner, member); err != nil {
				return fmt.Errorf("lock counter rows: %w", err)
			}
		}

		delta, err := applyToggle(ctx, tx, stmts, owner, member)
		if err != nil {
			return err
		}

		out.Changed = delta != 0
		out.Active = delta >= 0

		for i, c := range stmts.counters {
			var count int64
			id := c.id(owner, member)
			if delta != 0 {
				err = tx.QueryRowxContext(ctx, c.update, delta, id).Scan(&count)
			} else {
				err = tx.GetContext(ctx, &count, c.read, id)
			}
			if err != nil {
				return fmt.Errorf("update counter: %w", err)
			}
			if i == 0 {
				out.Count = count
			}
		}
		return nil
	})

	return out, err
}

// applyToggle returns -1 when the membership was removed, +1 when it was
// added, and 0 when an identical concurrent insert won the race (membership
// present, nothing changed by this call).
func applyToggle(ctx context.Context, tx *sqlx.Tx, stmts toggleStatements, owner, member uuid.UUID) (int64, error) {
	res, err := tx.ExecContext(ctx, stmts.remove, owner, member)
	if err != nil {
		return 0, fmt.Errorf("remove membership: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return -1, nil
	}

	res, err = tx.ExecContext(ctx, stmts.insert, owner, member)
	if err != nil {
		return 0, fmt.Errorf("insert membership: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return 1, nil
	}
	return 0, nil
}

// RecordView is monotone: the history row is written once and the view
// counter only moves when that write happened.
func (r *interactionRepository) RecordView(ctx context.Context, blogID, userID uuid.UUID) (domain.ToggleOutcome, error) {
	out := domain.ToggleOutcome{Active: true}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO blog_views (blog_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			blogID, userID)
		if err != nil {
			return fmt.Errorf("insert view: %w", err)
		}

		if n, _ := res.RowsAffected(); n > 0 {
			out.Changed = true
			return tx.QueryRowxContext(ctx,
				`UPDATE blogs SET views = views + 1 WHERE blog_id = $1 RETURNING views`,
				blogID).Scan(&out.Count)
		}
		return tx.GetContext(ctx, &out.Count, `SELECT views FROM blogs WHERE blog_id = $1`, blogID)
	})

	return out, err
}
