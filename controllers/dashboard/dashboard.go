package dashboardController

import (
	"sort"
	"time"

	"levelup/database"
	"levelup/middleware"
	"levelup/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// generalBucket collects donations that name no game
const generalBucket = "General"

type GameTotal struct {
	Game  string          `json:"game"`
	Total decimal.Decimal `json:"total"`
}

// CreatorSummary aggregates approved donations for a creator's dashboard
type CreatorSummary struct {
	Total     decimal.Decimal `json:"total"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
	ByGame    []GameTotal     `json:"byGame"`
}

// Summarize totals approved donations overall, per game and since the start
// of the month containing at.
func Summarize(donations []models.Donation, at time.Time) CreatorSummary {
	monthStart := now.With(at).BeginningOfMonth()
	summary := CreatorSummary{Total: decimal.Zero, ThisMonth: decimal.Zero}
	byGame := map[string]decimal.Decimal{}

	for _, d := range donations {
		if d.Status != models.DonationApproved {
			continue
		}
		summary.Total = summary.Total.Add(d.Amount)
		if !d.Timestamp.Before(monthStart) {
			summary.ThisMonth = summary.ThisMonth.Add(d.Amount)
		}

		name := generalBucket
		if d.Game != nil {
			name = d.Game.Name
		}
		byGame[name] = byGame[name].Add(d.Amount)
	}

	for name, total := range byGame {
		summary.ByGame = append(summary.ByGame, GameTotal{Game: name, Total: total})
	}
	sort.Slice(summary.ByGame, func(i, j int) bool {
		return summary.ByGame[i].Total.GreaterThan(summary.ByGame[j].Total)
	})
	return summary
}

func HomeUsuario(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	db := database.Database.Db

	var games []models.Game
	if err := db.Order("created_at DESC").Find(&games).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load games!", nil)
	}

	var downloads []models.Download
	if err := db.Preload("Game").Where("user_id = ?", user.ID).Find(&downloads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load downloads!", nil)
	}
	downloaded := make([]models.Game, 0, len(downloads))
	for _, d := range downloads {
		downloaded = append(downloaded, d.Game)
	}

	var notifications []models.Notification
	if err := db.Preload("Creator").Order("created_at DESC").Limit(10).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched.", fiber.Map{
		"user":            user,
		"games":           games,
		"downloadedGames": downloaded,
		"notifications":   notifications,
	})
}

func HomeCreador(c *fiber.Ctx) error {
	creator := middleware.CurrentUser(c)
	db := database.Database.Db

	var donations []models.Donation
	if err := db.Preload("Game").Preload("Donor").
		Where("creator_id = ? AND status = ?", creator.ID, models.DonationApproved).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load donations!", nil)
	}

	var games []models.Game
	if err := db.Where("creator_id = ?", creator.ID).Order("created_at DESC").Find(&games).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load games!", nil)
	}

	var notifications []models.Notification
	if err := db.Where("creator_id = ?", creator.ID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched.", fiber.Map{
		"user":          creator,
		"donations":     donations,
		"summary":       Summarize(donations, time.Now()),
		"games":         games,
		"notifications": notifications,
	})
}

// AdminPanel lists users, games and donations
func AdminPanel(c *fiber.Ctx) error {
	db := database.Database.Db

	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load users!", nil)
	}

	var games []models.Game
	if err := db.Preload("Creator").Order("id").Find(&games).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load games!", nil)
	}

	var donations []models.Donation
	if err := db.Preload("Donor").Preload("Creator").Preload("Game").Order("created_at DESC").Find(&donations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load donations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin panel fetched.", fiber.Map{
		"users":     users,
		"games":     games,
		"donations": donations,
	})
}
