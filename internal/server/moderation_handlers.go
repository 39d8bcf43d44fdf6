package server

import (
	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReconcilePost recomputes a post's denormalized counters from its live
// children. Owner role only.
func (s *Server) ReconcilePost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.ReconcilePost(c.UserContext(), service.ReconcilePostInput{
		PostID: postID,
		UserID: currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// ReconcileComment recomputes a comment's reply counter. Owner role only.
func (s *Server) ReconcileComment(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	comment, err := s.commentService.ReconcileComment(c.UserContext(), service.ReconcileCommentInput{
		CommentID: commentID,
		UserID:    currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}
