package authRoutes

import (
	authControllers "levelup/controllers/auth"
	"levelup/middleware"
	authValidators "levelup/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	app.Get("/", middleware.OptionalJWT, authControllers.Home)
	app.Post("/register", authValidators.Register(), authControllers.Register)
	app.Post("/login", authValidators.Login(), authControllers.Login)
	app.Post("/logout", authControllers.Logout)

	app.Post("/request_password_reset", authValidators.RequestPasswordReset(), authControllers.RequestPasswordReset)
	app.Post("/verify_code", authValidators.VerifyCode(), authControllers.VerifyCode)
	app.Post("/reset_password_code", authValidators.ResetPassword(), authControllers.ResetPassword)
}
