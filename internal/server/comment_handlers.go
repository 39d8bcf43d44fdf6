package server

import (
	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment adds a comment under a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	media, err := mediaFromRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	text, _ := textFromRequest(c, "text")

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   text,
		Media:  media,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists the live comments of a post, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments, "count": len(comments)})
}

// UpdateComment edits the text or media of the caller's own comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	media, err := mediaFromRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	in := service.EditCommentInput{
		CommentID: commentID,
		UserID:    currentUserID(c),
		Media:     media,
	}
	if text, ok := textFromRequest(c, "text"); ok {
		in.Text = &text
	}

	comment, err := s.commentService.EditComment(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment soft-deletes a comment and its replies.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	comment, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		CommentID: commentID,
		UserID:    currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted", "comment": comment})
}
