package service

import (
	"context"
	"time"

	"chatter/internal/models"
	"chatter/internal/observability"
	"chatter/internal/repository"
	"chatter/internal/validation"
)

// PostService owns the post lifecycle, including the widest delete cascade:
// post -> comments -> replies, plus live reactions.
type PostService struct {
	tx          repository.TxRunner
	store       repository.Store
	attachments *AttachmentService
	now         func() time.Time
}

type CreatePostInput struct {
	UserID      uint
	Description string
	Media       *MediaUpload
}

type EditPostInput struct {
	PostID      uint
	UserID      uint
	Description *string
	Media       *MediaUpload
}

type DeletePostInput struct {
	PostID uint
	UserID uint
}

// NewPostService creates a new PostService
func NewPostService(tx repository.TxRunner, store repository.Store, attachments *AttachmentService) *PostService {
	return &PostService{
		tx:          tx,
		store:       store,
		attachments: attachments,
		now:         time.Now,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if _, err := s.store.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, wrapGetErr(err, "User", in.UserID)
	}
	if err := validation.PostContent(in.Description, in.Media != nil); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		UserID:      in.UserID,
		Description: in.Description,
	}

	if in.Media != nil {
		url, kind, err := s.attachments.SaveMedia(ctx, in.Media.Filename, in.Media.Content)
		if err != nil {
			return nil, err
		}
		post.MediaURL = url
		post.MediaKind = kind
	}

	if err := s.store.Posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.store.Posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", post.ID)
	}
	return created, nil
}

// GetPost returns a live post; deleted posts are hidden as NotFound.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.store.Posts.GetByIDCached(ctx, postID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", postID)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, wrapGetErr(err, "User", userID)
	}
	posts, err := s.store.Posts.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// EditPost updates content fields only; it never changes lifecycle state and
// therefore never touches counters.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	post, err := s.store.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", in.PostID)
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if !CanMutate(Actor{ID: in.UserID}, ActionEdit, post.UserID, post.UserID) {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	if in.Description != nil {
		if err := validation.PostDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Description = *in.Description
	}
	if in.Media != nil {
		url, kind, err := s.attachments.SaveMedia(ctx, in.Media.Filename, in.Media.Content)
		if err != nil {
			return nil, err
		}
		post.MediaURL = url
		post.MediaKind = kind
	}

	if err := s.store.Posts.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// DeletePost soft-deletes the post and cascades to every live comment,
// reply, and reaction under it, inside one transaction. The post's own
// counters are left as they were; they are moot once the post is deleted.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (*models.Post, error) {
	post, err := s.store.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, wrapGetErr(err, "Post", in.PostID)
	}

	actor, err := actorFor(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, ActionDelete, post.UserID, post.UserID) {
		observability.CascadeOutcomes.WithLabelValues("post", "forbidden").Inc()
		return nil, models.NewForbiddenError("You cannot delete this post")
	}
	if post.IsDeleted {
		observability.CascadeOutcomes.WithLabelValues("post", "already_deleted").Inc()
		return nil, models.NewAlreadyDeletedError("Post", post.ID)
	}

	ctx, span := observability.Tracer.Start(ctx, "cascade.post")
	defer span.End()

	deletedOn := s.now().UTC()
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		// CAS on the post decides the winner between racing deletes; the
		// loser rolls back before touching any child.
		swapped, err := st.Posts.MarkDeleted(ctx, post.ID, deletedOn)
		if err != nil {
			return err
		}
		if !swapped {
			return models.NewAlreadyDeletedError("Post", post.ID)
		}

		// Already-deleted descendants are skipped, not re-transitioned:
		// every batch below only matches live rows.
		replies, err := st.Replies.MarkDeletedByPost(ctx, post.ID, deletedOn)
		if err != nil {
			return err
		}
		comments, err := st.Comments.MarkDeletedByPost(ctx, post.ID, deletedOn)
		if err != nil {
			return err
		}
		reactions, err := st.Reactions.MarkDeletedByPost(ctx, post.ID, deletedOn)
		if err != nil {
			return err
		}

		observability.CascadedChildren.WithLabelValues("reply").Add(float64(replies))
		observability.CascadedChildren.WithLabelValues("comment").Add(float64(comments))
		observability.CascadedChildren.WithLabelValues("reaction").Add(float64(reactions))
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	observability.CascadeOutcomes.WithLabelValues("post", "success").Inc()
	post.IsDeleted = true
	post.DeletedOn = &deletedOn
	return post, nil
}

type ReconcilePostInput struct {
	PostID uint
	UserID uint
}

// ReconcilePost re-derives the post's denormalized counters from its live
// children. It is the repair path for drift and is restricted to the
// privileged role.
func (s *PostService) ReconcilePost(ctx context.Context, in ReconcilePostInput) (*models.Post, error) {
	actor, err := actorFor(ctx, s.store.Users, in.UserID)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(PrivilegedRole) {
		return nil, models.NewForbiddenError("Reconciliation requires the owner role")
	}

	var post *models.Post
	err = s.tx.WithTx(ctx, func(st repository.Store) error {
		p, err := st.Posts.GetByID(ctx, in.PostID)
		if err != nil {
			return wrapGetErr(err, "Post", in.PostID)
		}
		if _, err := (CounterMaintainer{}).RecountPost(ctx, st, p); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return post, nil
}
