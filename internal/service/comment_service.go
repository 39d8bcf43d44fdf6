package service

import (
	"context"
	"time"

	"chatter/internal/models"
	"chatter/internal/observability"
	"chatter/internal/repository"
	"chatter/internal/validation"
)

// CommentService owns the comment lifecycle: creation increments the parent
// post's comment counter, deletion cascades to replies and decrements the
// counter exactly once.
type CommentService struct {
	tx          repository.TxRunner
	store       repository.Store
	counter     CounterMaintainer
	attachments *AttachmentService
	now         func() time.Time
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
	Media  *MediaUpload
}

type EditCommentInput struct {
	CommentID uint
	UserID    uint
	Text      *string
	Media     *MediaUpload
}

type DeleteCommentInput struct {
	CommentID uint
	UserID    uint
}

// NewCommentService creates a new CommentService
func NewCommentService(tx repository.TxRunner, store repository.Store, attachments *AttachmentService) *CommentService {
	return &CommentService{
		tx:          tx,
		store:       store,
		attachments: attachments,
		now:         time.Now,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
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

	if err := validation.CommentContent(in.Text, in.Media != nil); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   in.Text,
	}

	if in.Media != nil {
		url, kind, err := s.attachments.SaveMedia(ctx, in.Media.Filename, in.Media.Content)
		if err != nil {
			return nil, err
		}
		comment.MediaURL = url
		comment.MediaKind = kind
	}

	// Creation and the counter increment commit as one unit.
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		if err := st.Comments.Create(ctx, comment); err != nil {
			return err
		}
		return s.counter.OnCommentLifecycleChanged(ctx, st.Posts, post, +1)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	created, err := s.store.Comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", comment.ID)
	}
	return created, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", postID)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}
	comments, err := s.store.Comments.ListLiveByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// EditComment updates content fields only; lifecycle state and counters are
// untouched.
func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	comment, err := s.store.Comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", in.CommentID)
	}
	if comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if !CanMutate(Actor{ID: in.UserID}, ActionEdit, comment.UserID, 0) {
		return nil, models.NewForbiddenError("Only the author can edit this comment")
	}

	if in.Text != nil {
		if err := validation.CommentText(*in.Text); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		comment.Text = *in.Text
	}
	if in.Media != nil {
		url, kind, err := s.attachments.SaveMedia(ctx, in.Media.Filename, in.Media.Content)
		if err != nil {
			return nil, err
		}
		comment.MediaURL = url
		comment.MediaKind = kind
	}

	if err := s.store.Comments.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// DeleteComment soft-deletes the comment and every live reply under it, and
// decrements the parent post's comment counter — but only when this call is
// the one that moved the comment out of the live set. A repeated delete
// reports AlreadyDeleted and leaves the counter alone.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.store.Comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, wrapGetErr(err, "Comment", in.CommentID)
	}

	// The parent post supplies the ancestor for the permission check and
	// owns the counter to decrement.
	post, err := s.store.Posts.GetByID(ctx, comment.PostID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", comment.PostID)
	}

	actor, err := actorFor(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, ActionDelete, comment.UserID, post.UserID) {
		observability.CascadeOutcomes.WithLabelValues("comment", "forbidden").Inc()
		return nil, models.NewForbiddenError("You cannot delete this comment")
	}

	if comment.IsDeleted {
		observability.CascadeOutcomes.WithLabelValues("comment", "already_deleted").Inc()
		return nil, models.NewAlreadyDeletedError("Comment", comment.ID)
	}

	ctx, span := observability.Tracer.Start(ctx, "cascade.comment")
	defer span.End()

	deletedOn := s.now().UTC()
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		// Replies are batch-superseded: the comment's reply counter stops
		// mattering once the comment itself is deleted.
		replies, err := st.Replies.MarkDeletedByComment(ctx, comment.ID, deletedOn)
		if err != nil {
			return err
		}

		swapped, err := st.Comments.MarkDeleted(ctx, comment.ID, deletedOn)
		if err != nil {
			return err
		}
		if !swapped {
			// A racing delete won; roll back the reply batch too so the
			// winner's view is the only one that commits.
			return models.NewAlreadyDeletedError("Comment", comment.ID)
		}

		observability.CascadedChildren.WithLabelValues("reply").Add(float64(replies))
		return s.counter.OnCommentLifecycleChanged(ctx, st.Posts, post, -1)
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	observability.CascadeOutcomes.WithLabelValues("comment", "success").Inc()
	comment.IsDeleted = true
	comment.DeletedOn = &deletedOn
	return comment, nil
}

type ReconcileCommentInput struct {
	CommentID uint
	UserID    uint
}

// ReconcileComment re-derives the comment's reply counter from its live
// replies; privileged-role only.
func (s *CommentService) ReconcileComment(ctx context.Context, in ReconcileCommentInput) (*models.Comment, error) {
	actor, err := actorFor(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(PrivilegedRole) {
		return nil, models.NewForbiddenError("Reconciliation requires the owner role")
	}

	var comment *models.Comment
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		c, err := st.Comments.GetByID(ctx, in.CommentID)
		if err != nil {
			return wrapGetErr(err, "Comment", in.CommentID)
		}
		if _, err := s.counter.RecountComment(ctx, st, c); err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return comment, nil
}
