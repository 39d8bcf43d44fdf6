package server

import (
	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost publishes a new post for the authenticated user. Accepts either
// a JSON body or a multipart form with an optional media file.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	media, err := mediaFromRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	description, _ := textFromRequest(c, "description")

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      currentUserID(c),
		Description: description,
		Media:       media,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single live post.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts lists a user's live posts, newest first.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	page := parsePagination(c, 20)
	posts, err := s.postService.ListUserPosts(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "count": len(posts)})
}

// UpdatePost edits the description or media of the caller's own post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	media, err := mediaFromRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	in := service.EditPostInput{
		PostID: postID,
		UserID: currentUserID(c),
		Media:  media,
	}
	if description, ok := textFromRequest(c, "description"); ok {
		in.Description = &description
	}

	post, err := s.postService.EditPost(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost soft-deletes a post together with its comments, replies, and
// reactions.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		PostID: postID,
		UserID: currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted", "post": post})
}
