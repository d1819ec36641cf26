package donationController

import (
	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/services/payments"
	"levelup/utils"
	donationValidator "levelup/validators/donation"
	"levelup/views"

	"github.com/gofiber/fiber/v2"
)

func service() *payments.Service {
	return payments.NewService(database.Database.Db, config.AppConfig, utils.DefaultMailer)
}

func statusFor(err error) int {
	switch payments.KindOf(err) {
	case payments.KindValidation:
		return fiber.StatusBadRequest
	case payments.KindAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateDonation starts a donation: it stores the PENDING row and hands the
// signed checkout to the caller, as JSON or as an auto-submitting form.
func CreateDonation(c *fiber.Ctx) error {
	req, ok := c.Locals("validatedDonation").(*donationValidator.DonationRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Datos inválidos"})
	}

	checkout, err := service().CreateIntent(c.UserContext(), middleware.UserID(c), req.Intent)
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == fiber.StatusInternalServerError && payments.KindOf(err) != payments.KindConfig {
			utils.Log.Error().Err(err).Msg("donation intent failed")
			msg = "No se pudo registrar la donación"
		} else {
			utils.Log.Warn().Err(err).Msg("donation intent rejected")
		}

		if req.WantsJSON {
			return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
		}
		return views.CheckoutError(c, status, msg)
	}

	if req.WantsJSON {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "wompi": checkout})
	}
	return views.Checkout(c, config.AppConfig.WompiCheckoutURL, checkout)
}

// WompiEvents is the gateway webhook. Only internal failures answer non-2xx
// so that the gateway retries them.
func WompiEvents(c *fiber.Ctx) error {
	outcome, err := service().HandleEvent(c.UserContext(), c.Body())
	if err != nil {
		if payments.KindOf(err) == payments.KindAuth {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "INVALID_SIGNATURE"})
		}
		utils.Log.Error().Err(err).Msg("gateway event processing failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "ERROR"})
	}

	utils.Log.Debug().Str("outcome", string(outcome)).Msg("gateway event processed")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "OK"})
}

// DonationFinished renders the outcome page from the query string only
func DonationFinished(c *fiber.Ctx) error {
	return views.Return(c, payments.ResolveReturn(c.Query("status"), c.Query("id")))
}

// DonationFormData lists creators and games for the donation form
func DonationFormData(c *fiber.Ctx) error {
	db := database.Database.Db

	var creators []models.User
	if err := db.Where("role = ?", models.RoleCreator).Order("username").Find(&creators).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load creators!", nil)
	}

	var games []models.Game
	if err := db.Order("name").Find(&games).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load games!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation form data fetched.", fiber.Map{
		"creators":    creators,
		"games":       games,
		"minDonation": config.AppConfig.MinDonation,
		"currency":    config.AppConfig.WompiCurrency,
	})
}

// DonationHistory lists every donation received by the session creator
func DonationHistory(c *fiber.Ctx) error {
	creator := middleware.CurrentUser(c)

	var donations []models.Donation
	if err := database.Database.Db.
		Preload("Donor").
		Preload("Game").
		Where("creator_id = ?", creator.ID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load donations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Donation history fetched.", donations)
}
