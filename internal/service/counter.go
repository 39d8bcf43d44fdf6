package service

import (
	"context"

	"chatter/internal/models"
	"chatter/internal/observability"
	"chatter/internal/repository"
)

// CounterMaintainer adjusts the denormalized counters whenever a child
// enters or leaves the live set. It applies signed deltas directly rather
// than recomputing on every change; the delete cascades are responsible for
// routing each lifecycle transition through here exactly once. Recount* are
// the reconciliation operations that repair drift by re-deriving a counter
// from the live children.
type CounterMaintainer struct{}

// OnCommentLifecycleChanged applies delta to the post's comment counter.
// The database update is a single arithmetic expression so concurrent
// transitions on other children never overwrite each other; the in-memory
// post is mirrored for the caller's response snapshot.
func (CounterMaintainer) OnCommentLifecycleChanged(ctx context.Context, posts repository.PostRepository, post *models.Post, delta int) error {
	post.CommentCount += delta
	return posts.AdjustCommentCount(ctx, post.ID, delta)
}

// OnReplyLifecycleChanged applies delta to the comment's reply counter.
func (CounterMaintainer) OnReplyLifecycleChanged(ctx context.Context, comments repository.CommentRepository, comment *models.Comment, delta int) error {
	comment.ReplyCount += delta
	return comments.AdjustReplyCount(ctx, comment.ID, delta)
}

// OnReactionChanged applies delta to the post's counter for the given
// reaction type.
func (CounterMaintainer) OnReactionChanged(ctx context.Context, posts repository.PostRepository, post *models.Post, t models.ReactionType, delta int) error {
	post.AddReactionDelta(t, delta)
	return posts.AdjustReactionCount(ctx, post.ID, t, delta)
}

// RecountPost re-derives the post's comment counter and every reaction
// counter from the live children and persists them. It reports whether any
// counter had drifted. Running it twice without intervening mutations is a
// no-op the second time.
func (CounterMaintainer) RecountPost(ctx context.Context, st repository.Store, post *models.Post) (bool, error) {
	changed := false

	liveComments, err := st.Comments.CountLiveByPost(ctx, post.ID)
	if err != nil {
		return false, err
	}
	if post.CommentCount != int(liveComments) {
		post.CommentCount = int(liveComments)
		changed = true
		observability.ReconciliationDrift.WithLabelValues("comment_count").Inc()
	}

	for _, t := range models.ReactionTypes {
		liveReactions, err := st.Reactions.CountLiveByPostAndType(ctx, post.ID, t)
		if err != nil {
			return false, err
		}
		if post.ReactionCounts()[t] != int(liveReactions) {
			post.SetReactionCount(t, int(liveReactions))
			changed = true
			observability.ReconciliationDrift.WithLabelValues(string(t) + "_count").Inc()
		}
	}

	if !changed {
		return false, nil
	}
	return true, st.Posts.SaveCounters(ctx, post)
}

// RecountComment re-derives the comment's reply counter from its live
// replies and persists it when drifted.
func (CounterMaintainer) RecountComment(ctx context.Context, st repository.Store, comment *models.Comment) (bool, error) {
	liveReplies, err := st.Replies.CountLiveByComment(ctx, comment.ID)
	if err != nil {
		return false, err
	}
	if comment.ReplyCount == int(liveReplies) {
		return false, nil
	}
	comment.ReplyCount = int(liveReplies)
	observability.ReconciliationDrift.WithLabelValues("reply_count").Inc()
	return true, st.Comments.SaveReplyCount(ctx, comment)
}
