package routers

import (
	authRoutes "levelup/routers/authRoutes"
	dashboardRoutes "levelup/routers/dashboardRoutes"
	donationRoutes "levelup/routers/donationRoutes"
	gameRoutes "levelup/routers/gameRoutes"
	userProfileRoutes "levelup/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts every route group on app
func SetupRoutes(app *fiber.App) {
	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	donationRoutes.SetupDonationRoutes(app)
	gameRoutes.SetupGameRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
}
