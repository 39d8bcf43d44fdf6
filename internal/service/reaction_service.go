package service

import (
	"context"
	"time"

	"chatter/internal/models"
	"chatter/internal/repository"
)

// ReactionService maintains the at-most-one-live-reaction-per-user invariant
// on posts with toggle semantics: reacting with the current type retracts
// it, reacting with a different type switches it.
type ReactionService struct {
	tx      repository.TxRunner
	store   repository.Store
	counter CounterMaintainer
	now     func() time.Time
}

type ReactInput struct {
	PostID uint
	UserID uint
	Type   models.ReactionType
}

// ReactResult reports the user's reaction after the call; Reaction is nil
// when the call retracted an existing reaction.
type ReactResult struct {
	Reaction *models.Reaction `json:"reaction,omitempty"`
	Post     *models.Post     `json:"post"`
}

// NewReactionService creates a new ReactionService
func NewReactionService(tx repository.TxRunner, store repository.Store) *ReactionService {
	return &ReactionService{
		tx:    tx,
		store: store,
		now:   time.Now,
	}
}

func (s *ReactionService) React(ctx context.Context, in ReactInput) (*ReactResult, error) {
	if _, ok := models.ParseReactionType(string(in.Type)); !ok {
		return nil, models.NewValidationError("Unknown reaction type")
	}
	if _, err := s.store.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, wrapGetErr(err, "User", in.UserID)
	}

	post, err := s.store.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", in.PostID)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	deletedOn := s.now().UTC()
	var current *models.Reaction

	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		existing, err := st.Reactions.GetLiveByPostAndUser(ctx, in.PostID, in.UserID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			reaction := &models.Reaction{PostID: in.PostID, UserID: in.UserID, Type: in.Type}
			if err := st.Reactions.Create(ctx, reaction); err != nil {
				return err
			}
			current = reaction
			return s.counter.OnReactionChanged(ctx, st.Posts, post, in.Type, +1)

		case existing.Type == in.Type:
			// Toggle off. The CAS guard keeps a racing retraction from
			// double-decrementing the counter.
			swapped, err := st.Reactions.MarkDeleted(ctx, existing.ID, deletedOn)
			if err != nil {
				return err
			}
			if swapped {
				return s.counter.OnReactionChanged(ctx, st.Posts, post, in.Type, -1)
			}
			return nil

		default:
			swapped, err := st.Reactions.MarkDeleted(ctx, existing.ID, deletedOn)
			if err != nil {
				return err
			}
			if swapped {
				if err := s.counter.OnReactionChanged(ctx, st.Posts, post, existing.Type, -1); err != nil {
					return err
				}
			}
			reaction := &models.Reaction{PostID: in.PostID, UserID: in.UserID, Type: in.Type}
			if err := st.Reactions.Create(ctx, reaction); err != nil {
				return err
			}
			current = reaction
			return s.counter.OnReactionChanged(ctx, st.Posts, post, in.Type, +1)
		}
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return &ReactResult{Reaction: current, Post: post}, nil
}

func (s *ReactionService) ListReactions(ctx context.Context, postID uint) ([]*models.Reaction, error) {
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", postID)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}
	reactions, err := s.store.Reactions.ListLiveByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}
