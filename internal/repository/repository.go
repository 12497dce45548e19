package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Blog         BlogRepository
	Interaction  InteractionRepository
	Comment      CommentRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Blog:         NewBlogRepository(db),
		Interaction:  NewInteractionRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
