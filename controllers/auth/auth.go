package authController

import (
	"errors"
	"time"

	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/utils"
	authValidator "levelup/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var existing models.User
	err := db.Where("username = ? OR email = ? OR document = ?", reqData.Username, reqData.Email, reqData.Document).First(&existing).Error
	if err == nil {
		field := "document"
		switch {
		case existing.Username == reqData.Username:
			field = "username"
		case existing.Email == reqData.Email:
			field = "email"
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already registered!", fiber.Map{"field": field})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Log.Error().Err(err).Msg("register lookup failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		utils.Log.Error().Err(err).Msg("hashing password failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username: reqData.Username,
		Email:    reqData.Email,
		Document: reqData.Document,
		Password: string(hashedPassword),
		Role:     models.Role(reqData.Role),
	}

	if err := db.Create(&newUser).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already registered!", nil)
		}
		utils.Log.Error().Err(err).Msg("saving user failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.Log.Info().Uint("user_id", newUser.ID).Str("role", string(newUser.Role)).Msg("user registered")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("username = ?", reqData.Username).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	loginLog := models.LoginLog{
		UserID:    user.ID,
		IPAddress: ip,
		UserAgent: c.Get("User-Agent"),
		Timestamp: time.Now(),
	}
	if err := db.Create(&loginLog).Error; err != nil {
		utils.Log.Error().Err(err).Uint("user_id", user.ID).Msg("saving login log failed")
	}

	token, err := middleware.GenerateJWT(user.ID, user.Username, string(user.Role), user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}
	middleware.SetSessionCookie(c, token)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":     user,
		"token":    token,
		"redirect": user.Role.HomePath(),
	})
}

func Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}

// Home tells the client which dashboard belongs to the session user
func Home(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Not logged in.", fiber.Map{"redirect": "/login"})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		middleware.ClearSessionCookie(c)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Not logged in.", fiber.Map{"redirect": "/login"})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Welcome back.", fiber.Map{
		"role":     user.Role,
		"redirect": user.Role.HomePath(),
	})
}

// RequestPasswordReset emails a fresh six digit code. The answer is the
// same whether or not the email is registered.
func RequestPasswordReset(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEmail").(*authValidator.EmailRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	const sent = "If the email is registered, a reset code has been sent."
	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, sent, nil)
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate code!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.PasswordResetCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordResetCode{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(models.PasswordResetTTL),
		}).Error
	})
	if err != nil {
		utils.Log.Error().Err(err).Uint("user_id", user.ID).Msg("saving reset code failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create reset code!", nil)
	}

	if err := utils.SendPasswordResetEmail(utils.DefaultMailer, user.Email, user.Username, code); err != nil {
		utils.Log.Error().Err(err).Uint("user_id", user.ID).Msg("sending reset code failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send reset code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, sent, nil)
}

func findResetCode(email, code string) (*models.User, *models.PasswordResetCode, string) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, nil, "Invalid code!"
	}

	var reset models.PasswordResetCode
	if err := db.Where("user_id = ? AND code = ? AND is_used = ?", user.ID, code, false).First(&reset).Error; err != nil {
		return nil, nil, "Invalid code!"
	}
	if reset.Expired(time.Now()) {
		return nil, nil, "Code has expired!"
	}
	return &user, &reset, ""
}

func VerifyCode(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCode").(*authValidator.VerifyCodeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, _, msg := findResetCode(reqData.Email, reqData.Code); msg != "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, msg, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Code verified.", nil)
}

func ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReset").(*authValidator.ResetPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, reset, msg := findResetCode(reqData.Email, reqData.Code)
	if msg != "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, msg, nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
		return tx.Model(reset).Update("is_used", true).Error
	})
	if err != nil {
		utils.Log.Error().Err(err).Uint("user_id", user.ID).Msg("password reset failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated.", nil)
}
