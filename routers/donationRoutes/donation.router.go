package donationRoutes

import (
	donationController "levelup/controllers/donation"
	"levelup/middleware"
	"levelup/models"
	donationValidator "levelup/validators/donation"

	"github.com/gofiber/fiber/v2"
)

func SetupDonationRoutes(app *fiber.App) {
	// anonymous donors reach the handler and get an auth error there
	app.Post("/donaciones", middleware.OptionalJWT, donationValidator.Donation(), donationController.CreateDonation)
	app.Get("/donaciones", middleware.JWTMiddleware, donationController.DonationFormData)

	app.Post("/wompi_events", donationController.WompiEvents)
	app.Get("/donacion_finalizada", donationController.DonationFinished)

	app.Get("/donations/history", middleware.JWTMiddleware, middleware.RequireRole(models.RoleCreator), donationController.DonationHistory)
}
