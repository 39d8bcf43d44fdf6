package server

import (
	"io"
	"strconv"
	"strings"

	"chatter/internal/models"
	"chatter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Pagination carries the limit/offset parsed from the query string.
type Pagination struct {
	Limit  int
	Offset int
}

func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// mediaFromRequest extracts an uploaded file from a multipart request, or
// nil when the request carries none.
func mediaFromRequest(c *fiber.Ctx) (*service.MediaUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fileHeader, err := c.FormFile("media")
	if err != nil {
		return nil, nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewValidationError("Unreadable upload")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewValidationError("Unreadable upload")
	}
	return &service.MediaUpload{Filename: fileHeader.Filename, Content: content}, nil
}

// textFromRequest reads a text field from either a multipart form or a JSON
// body, reporting whether the field was present.
func textFromRequest(c *fiber.Ctx, field string) (string, bool) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if v := c.FormValue(field); v != "" {
			return v, true
		}
		return "", false
	}
	body := map[string]string{}
	if err := c.BodyParser(&body); err != nil {
		return "", false
	}
	v, ok := body[field]
	return v, ok
}
