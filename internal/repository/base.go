// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the per-aggregate repositories. A Store built from a
// transaction handle scopes every operation to that transaction.
type Store struct {
	Users     UserRepository
	Posts     PostRepository
	Comments  CommentRepository
	Replies   ReplyRepository
	Reactions ReactionRepository
}

// NewStore creates a Store over the given database handle.
func NewStore(db *gorm.DB) Store {
	return Store{
		Users:     NewUserRepository(db),
		Posts:     NewPostRepository(db),
		Comments:  NewCommentRepository(db),
		Replies:   NewReplyRepository(db),
		Reactions: NewReactionRepository(db),
	}
}

// TxRunner executes a function against a transaction-scoped Store. A
// lifecycle transition and its counter adjustment must commit or roll back
// as one unit; services run every cascade through this.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Store) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner creates a TxRunner backed by gorm transactions.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
