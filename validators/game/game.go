package gameValidator

import (
	"strings"
	"time"

	"levelup/middleware"
	"levelup/validators"

	"github.com/gofiber/fiber/v2"
)

type UploadGameRequest struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
	Genre       string `form:"genre" validate:"max=50"`
	Platform    string `form:"platform" validate:"max=50"`
	Size        string `form:"size" validate:"max=20"`
	Developer   string `form:"developer" validate:"max=100"`
	ReleaseDate string `form:"release_date" validate:"omitempty,datetime=2006-01-02"`
}

// Released parses ReleaseDate, nil when empty
func (r *UploadGameRequest) Released() *time.Time {
	if r.ReleaseDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.ReleaseDate)
	if err != nil {
		return nil
	}
	return &t
}

type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=2000"`
}

// UploadGame validates the multipart upload form; the image is mandatory.
func UploadGame() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UploadGameRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := validators.Validate(reqData)
		if errors == nil {
			errors = map[string]string{}
		}
		if _, err := c.FormFile("image"); err != nil {
			errors["image"] = "image is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGame", reqData)
		return c.Next()
	}
}

func Comment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CommentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Content = strings.TrimSpace(reqData.Content)

		if errors := validators.Validate(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}
