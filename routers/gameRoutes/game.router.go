package gameRoutes

import (
	gameController "levelup/controllers/game"
	"levelup/middleware"
	"levelup/models"
	gameValidator "levelup/validators/game"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App) {
	app.Post("/upload_game", middleware.JWTMiddleware, middleware.RequireRole(models.RoleCreator), gameValidator.UploadGame(), gameController.UploadGame)

	gameGroup := app.Group("/games")
	gameGroup.Get("/", gameController.ListGames)
	gameGroup.Get("/:id", gameController.GetGame)
	gameGroup.Post("/:id/download", middleware.JWTMiddleware, gameController.DownloadGame)
	gameGroup.Post("/:id/comments", middleware.JWTMiddleware, gameValidator.Comment(), gameController.AddComment)
}
