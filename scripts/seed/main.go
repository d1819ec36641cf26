package main

import (
	"log"
	"os"
	"time"

	"levelup/config"
	"levelup/database"
	"levelup/models"
	"levelup/services/payments"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a creator, a regular user, a game with a download and a handful of
// donations so the dashboards have something to show. Safe to run twice.
func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal("SEED_PASSWORD must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	creator := seedUser(db, models.User{
		Username: "creador_test",
		Email:    "creador@levelup.test",
		Document: "1000000001",
		Password: string(hash),
		Role:     models.RoleCreator,
	})
	donor := seedUser(db, models.User{
		Username: "usuario_test",
		Email:    "usuario@levelup.test",
		Document: "1000000002",
		Password: string(hash),
		Role:     models.RoleUser,
	})

	released := time.Now().AddDate(0, -1, 0)
	game := models.Game{
		Name:        "Pixel Quest",
		Description: "Aventura de plataformas en pixel art.",
		ImageURL:    "/uploads/pixel-quest.png",
		Genre:       "Plataformas",
		Platform:    "PC",
		Size:        "120 MB",
		Developer:   creator.Username,
		ReleaseDate: &released,
		CreatorID:   creator.ID,
	}
	if err := db.Where("creator_id = ? AND name = ?", creator.ID, game.Name).FirstOrCreate(&game).Error; err != nil {
		log.Fatalf("Failed to seed game: %v", err)
	}

	download := models.Download{UserID: donor.ID, GameID: game.ID}
	if err := db.Where(&download).FirstOrCreate(&download).Error; err != nil {
		log.Fatalf("Failed to seed download: %v", err)
	}

	var existing int64
	db.Model(&models.Donation{}).Where("creator_id = ?", creator.ID).Count(&existing)
	if existing > 0 {
		log.Printf("Creator already has %d donations, skipping", existing)
		return
	}

	amounts := []struct {
		value  int64
		status models.DonationStatus
	}{
		{5000, models.DonationApproved},
		{20000, models.DonationApproved},
		{10000, models.DonationPending},
		{3000, models.DonationDeclined},
	}
	for _, a := range amounts {
		donation := models.Donation{
			Amount:         decimal.NewFromInt(a.value),
			DonorID:        &donor.ID,
			CreatorID:      creator.ID,
			GameID:         &game.ID,
			TransactionRef: payments.NewReference(donor.ID, creator.ID),
			Status:         a.status,
		}
		if err := db.Create(&donation).Error; err != nil {
			log.Fatalf("Failed to seed donation: %v", err)
		}
	}

	log.Printf("=== Seed Complete ===")
	log.Printf("Creator: %s (id=%d)", creator.Username, creator.ID)
	log.Printf("User: %s (id=%d)", donor.Username, donor.ID)
	log.Printf("Game: %s (id=%d)", game.Name, game.ID)
	log.Printf("Donations: %d", len(amounts))
}

func seedUser(db *gorm.DB, user models.User) models.User {
	var existing models.User
	if err := db.Where("username = ?", user.Username).First(&existing).Error; err == nil {
		return existing
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed user %s: %v", user.Username, err)
	}
	return user
}
