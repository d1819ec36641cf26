package notificationValidator

import (
	"strings"

	"levelup/middleware"
	"levelup/validators"

	"github.com/gofiber/fiber/v2"
)

type PublishProgressRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Content string `json:"content" form:"content" validate:"required"`
}

// PublishProgress validates a creator progress post. An optional image may
// come in the multipart "image" field.
func PublishProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PublishProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Content = strings.TrimSpace(reqData.Content)

		if errors := validators.Validate(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
