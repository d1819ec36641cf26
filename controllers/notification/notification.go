package notificationController

import (
	"errors"

	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/utils"
	notificationValidator "levelup/validators/notification"

	"github.com/gofiber/fiber/v2"
)

// PublishProgress stores a creator progress post and emails it to every
// registered user in the background.
func PublishProgress(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProgress").(*notificationValidator.PublishProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	creator := middleware.CurrentUser(c)

	var imageURL string
	if image, err := c.FormFile("image"); err == nil {
		name, err := utils.SaveUploadedFile(image, config.AppConfig.UploadDir, utils.ImageExtensions)
		if err != nil {
			if errors.Is(err, utils.ErrFileType) {
				return middleware.ValidationErrorResponse(c, map[string]string{"image": "Image type not allowed!"})
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
		}
		imageURL = utils.GetFileURL(name)
	}

	db := database.Database.Db

	notification := models.Notification{
		Title:     reqData.Title,
		Content:   reqData.Content,
		ImageURL:  imageURL,
		CreatorID: creator.ID,
	}
	if err := db.Create(&notification).Error; err != nil {
		utils.Log.Error().Err(err).Msg("saving notification failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish!", nil)
	}

	var recipients []string
	if err := db.Model(&models.User{}).Where("email <> ''").Pluck("email", &recipients).Error; err != nil {
		utils.Log.Error().Err(err).Uint("notification_id", notification.ID).Msg("loading recipients failed")
	}

	absoluteImage := ""
	if imageURL != "" {
		absoluteImage = config.AppConfig.PublicBaseURL + imageURL
	}
	utils.SendProgressPostEmail(utils.DefaultMailer, recipients, creator.Username, notification.Title, notification.Content, absoluteImage)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Progress published.", fiber.Map{
		"notification": notification,
		"recipients":   len(recipients),
	})
}

// ListNotifications returns the ten latest progress posts
func ListNotifications(c *fiber.Ctx) error {
	var notifications []models.Notification
	if err := database.Database.Db.Preload("Creator").Order("created_at DESC").Limit(10).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load notifications!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched.", notifications)
}
