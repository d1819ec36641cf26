package userProfileController

import (
	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/utils"
	userValidator "levelup/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Me returns the session user
func Me(c *fiber.Ctx) error {
	var user models.User
	if err := database.Database.Db.First(&user, middleware.UserID(c)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched.", user)
}

func EditProfile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProfile").(*userValidator.EditProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, middleware.UserID(c)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var taken int64
	db.Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", reqData.Username, reqData.Email, user.ID).
		Count(&taken)
	if taken > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username or email already in use!", nil)
	}

	updates := map[string]interface{}{
		"username": reqData.Username,
		"email":    reqData.Email,
	}
	if reqData.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		updates["password"] = string(hashed)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username or email already in use!", nil)
		}
		utils.Log.Error().Err(err).Uint("user_id", user.ID).Msg("profile update failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated.", user)
}
