package service

import (
	"context"
	"time"

	"chatter/internal/models"
	"chatter/internal/observability"
	"chatter/internal/repository"
	"chatter/internal/validation"
)

// ReplyService owns the reply lifecycle. Replies are the leaf of the
// hierarchy; deleting one independently of a comment cascade must decrement
// the parent comment's reply counter to keep it aligned with the live set.
type ReplyService struct {
	tx      repository.TxRunner
	store   repository.Store
	counter CounterMaintainer
	now     func() time.Time
}

type CreateReplyInput struct {
	UserID    uint
	CommentID uint
	Text      string
}

type EditReplyInput struct {
	ReplyID uint
	UserID  uint
	Text    string
}

type DeleteReplyInput struct {
	ReplyID uint
	UserID  uint
}

// NewReplyService creates a new ReplyService
func NewReplyService(tx repository.TxRunner, store repository.Store) *ReplyService {
	return &ReplyService{
		tx:    tx,
		store: store,
		now:   time.Now,
	}
}

func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	if _, err := s.store.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, wrapGetErr(err, "User", in.UserID)
	}

	comment, err := s.store.Comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", in.CommentID)
	}
	if comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if err := validation.ReplyText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	reply := &models.Reply{
		CommentID: in.CommentID,
		UserID:    in.UserID,
		Text:      in.Text,
	}

	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		if err := st.Replies.Create(ctx, reply); err != nil {
			return err
		}
		return s.counter.OnReplyLifecycleChanged(ctx, st.Comments, comment, +1)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	created, err := s.store.Replies.GetByID(ctx, reply.ID)
	if err != nil {
		return nil, wrapGetErr(err, "Reply", reply.ID)
	}
	return created, nil
}

func (s *ReplyService) ListReplies(ctx context.Context, commentID uint) ([]*models.Reply, error) {
	comment, err := s.store.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", commentID)
	}
	if comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	replies, err := s.store.Replies.ListLiveByComment(ctx, commentID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (s *ReplyService) EditReply(ctx context.Context, in EditReplyInput) (*models.Reply, error) {
	reply, err := s.store.Replies.GetByID(ctx, in.ReplyID)
	if err != nil {
		return nil, wrapGetErr(err, "Reply", in.ReplyID)
	}
	if reply.IsDeleted {
		return nil, models.NewNotFoundError("Reply", in.ReplyID)
	}

	if !CanMutate(Actor{ID: in.UserID}, ActionEdit, reply.UserID, 0) {
		return nil, models.NewForbiddenError("Only the author can edit this reply")
	}
	if err := validation.ReplyText(in.Text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	reply.Text = in.Text
	if err := s.store.Replies.Update(ctx, reply); err != nil {
		return nil, models.NewInternalError(err)
	}
	return reply, nil
}

// DeleteReply soft-deletes a single reply and decrements the parent
// comment's reply counter when this call performed the transition.
func (s *ReplyService) DeleteReply(ctx context.Context, in DeleteReplyInput) (*models.Reply, error) {
	reply, err := s.store.Replies.GetByID(ctx, in.ReplyID)
	if err != nil {
		return nil, wrapGetErr(err, "Reply", in.ReplyID)
	}

	comment, err := s.store.Comments.GetByID(ctx, reply.CommentID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", reply.CommentID)
	}
	post, err := s.store.Posts.GetByID(ctx, comment.PostID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", comment.PostID)
	}

	actor, err := actorFor(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, ActionDelete, reply.UserID, post.UserID) {
		observability.CascadeOutcomes.WithLabelValues("reply", "forbidden").Inc()
		return nil, models.NewForbiddenError("You cannot delete this reply")
	}

	if reply.IsDeleted {
		observability.CascadeOutcomes.WithLabelValues("reply", "already_deleted").Inc()
		return nil, models.NewAlreadyDeletedError("Reply", reply.ID)
	}

	deletedOn := s.now().UTC()
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		swapped, err := st.Replies.MarkDeleted(ctx, reply.ID, deletedOn)
		if err != nil {
			return err
		}
		if !swapped {
			return models.NewAlreadyDeletedError("Reply", reply.ID)
		}
		// A live reply under an already-deleted comment cannot exist (the
		// comment cascade would have taken it), so the decrement always
		// targets a live parent here.
		return s.counter.OnReplyLifecycleChanged(ctx, st.Comments, comment, -1)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	observability.CascadeOutcomes.WithLabelValues("reply", "success").Inc()
	reply.IsDeleted = true
	reply.DeletedOn = &deletedOn
	return reply, nil
}
