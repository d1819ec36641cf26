package database

import (
	"fmt"
	"log"
	"os"

	"levelup/config"
	"levelup/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and seeds the
// default administrator.
func ConnectDb() {
	cfg := config.AppConfig

	dsn := cfg.DBDSN
	if cfg.DBDriver == "postgres" {
		dsn = cfg.PostgresDSN()
	}

	db, err := Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := SeedAdmin(db, cfg); err != nil {
		log.Printf("Error creating default admin: %v", err)
	}

	Database = DbInstance{Db: db}
}

// Open returns a gorm handle for driver. Errors from the drivers are
// translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "levelup.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// OpenInMemory returns a migrated sqlite database living in memory. The pool
// is pinned to one connection since every new sqlite memory connection starts
// empty.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open("sqlite", "file::memory:")
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.PasswordResetCode{},
		&models.LoginLog{},
		&models.Game{},
		&models.Comment{},
		&models.Download{},
		&models.Notification{},
		&models.Donation{},
		&models.GatewayEvent{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// SeedAdmin creates the administrator account described by the ADMIN_*
// settings unless one with that username already exists.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Println("Warning: ADMIN_USERNAME/ADMIN_PASSWORD not set. Skipping default admin.")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.SaltRound)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Document: cfg.AdminDocument,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin %q created.", admin.Username)
	return nil
}
