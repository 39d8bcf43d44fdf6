package server

import (
	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reactRequest struct {
	Type string `json:"type"`
}

// React toggles the caller's reaction on a post. Reacting with the current
// type retracts it; a different type switches it.
func (s *Server) React(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var req reactRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	reactionType, ok := models.ParseReactionType(req.Type)
	if !ok {
		return models.RespondWithError(c, models.NewValidationError("Unknown reaction type"))
	}

	result, err := s.reactionService.React(c.UserContext(), service.ReactInput{
		PostID: postID,
		UserID: currentUserID(c),
		Type:   reactionType,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// GetReactions lists the live reactions on a post.
func (s *Server) GetReactions(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	reactions, err := s.reactionService.ListReactions(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"reactions": reactions, "count": len(reactions)})
}
