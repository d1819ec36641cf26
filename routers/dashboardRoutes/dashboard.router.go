package dashboardRoutes

import (
	dashboardController "levelup/controllers/dashboard"
	notificationController "levelup/controllers/notification"
	"levelup/middleware"
	"levelup/models"
	notificationValidator "levelup/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/home_usuario", middleware.JWTMiddleware, middleware.RequireRole(models.RoleUser), dashboardController.HomeUsuario)
	app.Get("/home_creador", middleware.JWTMiddleware, middleware.RequireRole(models.RoleCreator), dashboardController.HomeCreador)
	app.Get("/admin_panel", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), dashboardController.AdminPanel)

	app.Post("/creador/publicar_avance", middleware.JWTMiddleware, middleware.RequireRole(models.RoleCreator), notificationValidator.PublishProgress(), notificationController.PublishProgress)
	app.Get("/notifications", middleware.JWTMiddleware, notificationController.ListNotifications)
}
