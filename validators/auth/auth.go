package authValidator

import (
	"strings"

	"levelup/middleware"
	"levelup/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" form:"email" validate:"required,email,max=120"`
	Document string `json:"document" form:"document" validate:"required,numeric,min=5,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Role     string `json:"role" form:"role" validate:"required,oneof=Usuario Creador"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Code  string `json:"code" form:"code" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Code        string `json:"code" form:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
}

// parse binds the body into reqData, trims it and validates it. On success
// reqData is stored under key for the controller.
func parse[T any](key string, normalize func(*T)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if normalize != nil {
			normalize(reqData)
		}

		if errors := validators.Validate(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

// Register validator middleware
func Register() fiber.Handler {
	return parse("validatedUser", func(r *RegisterRequest) {
		r.Username = strings.TrimSpace(r.Username)
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
		r.Document = strings.TrimSpace(r.Document)
	})
}

// Login validator middleware
func Login() fiber.Handler {
	return parse("validatedLogin", func(r *LoginRequest) {
		r.Username = strings.TrimSpace(r.Username)
	})
}

func RequestPasswordReset() fiber.Handler {
	return parse("validatedEmail", func(r *EmailRequest) {
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	})
}

func VerifyCode() fiber.Handler {
	return parse("validatedCode", func(r *VerifyCodeRequest) {
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
		r.Code = strings.TrimSpace(r.Code)
	})
}

func ResetPassword() fiber.Handler {
	return parse("validatedReset", func(r *ResetPasswordRequest) {
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
		r.Code = strings.TrimSpace(r.Code)
	})
}
