package userProfileRoutes

import (
	userProfileController "levelup/controllers/userControllers"
	"levelup/middleware"
	userPorfileValidator "levelup/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	app.Get("/me", middleware.JWTMiddleware, userProfileController.Me)
	app.Put("/edit_profile", middleware.JWTMiddleware, userPorfileValidator.EditProfile(), userProfileController.EditProfile)
}
