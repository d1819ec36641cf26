package gameController

import (
	"errors"
	"path/filepath"
	"strconv"

	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/utils"
	gameValidator "levelup/validators/game"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UploadGame stores the cover image, the optional game file and the game row
func UploadGame(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGame").(*gameValidator.UploadGameRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	creator := middleware.CurrentUser(c)
	uploadDir := config.AppConfig.UploadDir

	image, err := c.FormFile("image")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "image is required!"})
	}
	imageName, err := utils.SaveUploadedFile(image, uploadDir, utils.ImageExtensions)
	if err != nil {
		if errors.Is(err, utils.ErrFileType) {
			return middleware.ValidationErrorResponse(c, map[string]string{"image": "Image type not allowed!"})
		}
		utils.Log.Error().Err(err).Msg("saving game image failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	var gameFile string
	if file, err := c.FormFile("game_file"); err == nil {
		gameFile, err = utils.SaveUploadedFile(file, uploadDir, utils.GameExtensions)
		if err != nil {
			if errors.Is(err, utils.ErrFileType) {
				return middleware.ValidationErrorResponse(c, map[string]string{"game_file": "Game file type not allowed!"})
			}
			utils.Log.Error().Err(err).Msg("saving game file failed")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save game file!", nil)
		}
	}

	game := models.Game{
		Name:        reqData.Name,
		Description: reqData.Description,
		ImageURL:    utils.GetFileURL(imageName),
		FilePath:    gameFile,
		Genre:       reqData.Genre,
		Platform:    reqData.Platform,
		Size:        reqData.Size,
		Developer:   reqData.Developer,
		ReleaseDate: reqData.Released(),
		CreatorID:   creator.ID,
	}
	if err := database.Database.Db.Create(&game).Error; err != nil {
		utils.Log.Error().Err(err).Msg("saving game failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload game!", nil)
	}

	utils.Log.Info().Uint("game_id", game.ID).Uint("creator_id", creator.ID).Msg("game uploaded")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Game uploaded successfully.", game)
}

func ListGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := database.Database.Db.Preload("Creator").Order("created_at DESC").Find(&games).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load games!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Games fetched.", games)
}

func loadGame(c *fiber.Ctx, preload ...string) (*models.Game, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	q := database.Database.Db
	for _, p := range preload {
		q = q.Preload(p)
	}
	var game models.Game
	if err := q.First(&game, uint(id)).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func GetGame(c *fiber.Ctx) error {
	game, err := loadGame(c, "Creator", "Comments", "Comments.Author")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Game not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Game fetched.", game)
}

// DownloadGame records the download once and serves the file when present
func DownloadGame(c *fiber.Ctx) error {
	game, err := loadGame(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Game not found!", nil)
	}

	download := models.Download{UserID: middleware.UserID(c), GameID: game.ID}
	err = database.Database.Db.
		Where(models.Download{UserID: download.UserID, GameID: download.GameID}).
		FirstOrCreate(&download).Error
	if err != nil && !database.IsDuplicateKey(err) {
		utils.Log.Error().Err(err).Uint("game_id", game.ID).Msg("saving download failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register download!", nil)
	}

	if game.FilePath == "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Download registered, no file attached.", nil)
	}
	return c.Download(filepath.Join(config.AppConfig.UploadDir, game.FilePath), game.Name+filepath.Ext(game.FilePath))
}

func AddComment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedComment").(*gameValidator.CommentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	game, err := loadGame(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Game not found!", nil)
	}

	comment := models.Comment{Content: reqData.Content, UserID: middleware.UserID(c), GameID: game.ID}
	if err := database.Database.Db.Create(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save comment!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment added.", comment)
}
