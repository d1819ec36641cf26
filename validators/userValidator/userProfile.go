package userValidator

import (
	"strings"

	"levelup/middleware"
	"levelup/validators"

	"github.com/gofiber/fiber/v2"
)

type EditProfileRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" form:"email" validate:"required,email,max=120"`
	Password string `json:"password" form:"password" validate:"omitempty,min=8"`
}

func EditProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EditProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if errors := validators.Validate(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
