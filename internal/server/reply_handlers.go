package server

import (
	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply adds a reply under a comment. Replies are text only.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	text, _ := textFromRequest(c, "text")

	reply, err := s.replyService.CreateReply(c.UserContext(), service.CreateReplyInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Text:      text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies lists the live replies of a comment, oldest first.
func (s *Server) GetReplies(c *fiber.Ctx) error {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	replies, err := s.replyService.ListReplies(c.UserContext(), commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"replies": replies, "count": len(replies)})
}

// UpdateReply edits the text of the caller's own reply.
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	replyID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	text, ok := textFromRequest(c, "text")
	if !ok {
		return models.RespondWithError(c, models.NewValidationError("Reply text is required"))
	}

	reply, err := s.replyService.EditReply(c.UserContext(), service.EditReplyInput{
		ReplyID: replyID,
		UserID:  currentUserID(c),
		Text:    text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}

// DeleteReply soft-deletes a single reply.
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	replyID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	reply, err := s.replyService.DeleteReply(c.UserContext(), service.DeleteReplyInput{
		ReplyID: replyID,
		UserID:  currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply deleted", "reply": reply})
}
