package main

import (
	"encoding/csv"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"levelup/config"
	"levelup/database"
	"levelup/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Imports a game catalog CSV. Creators are matched by username and created
// with SEED_CREATOR_PASSWORD when missing; games are matched by creator and name.
//
//	go run ./scripts/importCatalog catalog.csv
func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	path := "catalog.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0
	creators := make(map[string]*models.User)

	for i, row := range records[1:] {
		username := getField(row, headerIndex, "creator_username")
		name := getField(row, headerIndex, "name")
		if username == "" || name == "" {
			skipped++
			continue
		}

		creator, ok := creators[username]
		if !ok {
			creator, err = ensureCreator(db, username,
				getField(row, headerIndex, "creator_email"),
				getField(row, headerIndex, "creator_document"))
			if err != nil {
				log.Printf("Row %d: cannot load creator %s: %v", i+2, username, err)
				skipped++
				continue
			}
			creators[username] = creator
		}

		game := models.Game{
			Name:        name,
			Description: getField(row, headerIndex, "description"),
			ImageURL:    getField(row, headerIndex, "image_url"),
			Genre:       getField(row, headerIndex, "genre"),
			Platform:    getField(row, headerIndex, "platform"),
			Size:        getField(row, headerIndex, "size"),
			Developer:   getField(row, headerIndex, "developer"),
			ReleaseDate: parseDate(getField(row, headerIndex, "release_date")),
			CreatorID:   creator.ID,
		}

		var existing models.Game
		result := db.Where("creator_id = ? AND name = ?", creator.ID, name).First(&existing)
		if result.Error != nil {
			if err := db.Create(&game).Error; err != nil {
				log.Printf("Error inserting game %s: %v", name, err)
				continue
			}
			inserted++
			continue
		}

		existing.Description = game.Description
		existing.ImageURL = game.ImageURL
		existing.Genre = game.Genre
		existing.Platform = game.Platform
		existing.Size = game.Size
		existing.Developer = game.Developer
		existing.ReleaseDate = game.ReleaseDate
		if err := db.Save(&existing).Error; err != nil {
			log.Printf("Error updating game %s: %v", name, err)
			continue
		}
		updated++
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Creators: %d", len(creators))
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped)
}

func ensureCreator(db *gorm.DB, username, email, document string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == nil {
		if user.Role != models.RoleCreator {
			return nil, errors.New("user exists without the Creador role")
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := os.Getenv("SEED_CREATOR_PASSWORD")
	if password == "" || email == "" || document == "" {
		return nil, errors.New("new creators need creator_email, creator_document and SEED_CREATOR_PASSWORD")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Username: username,
		Email:    strings.ToLower(email),
		Document: document,
		Password: string(hash),
		Role:     models.RoleCreator,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
