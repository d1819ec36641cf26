package main

import (
	"time"

	"levelup/config"
	"levelup/database"
	"levelup/routers"
	"levelup/services/payments"
	"levelup/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	utils.Log = utils.NewLogger(cfg.AppEnv)
	utils.DefaultMailer = utils.NewMailer(cfg)

	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 200 * 1024 * 1024, // game uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.PublicBaseURL,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routers.SetupRoutes(app)

	if cfg.WompiAPIURL != "" {
		svc := payments.NewService(database.Database.Db, cfg, utils.DefaultMailer)
		gateway := payments.NewWompiClient(cfg.WompiAPIURL, cfg.WompiPrivateKey)
		reconciler := payments.NewReconciler(svc, gateway, time.Duration(cfg.ReconcileAfterMinutes)*time.Minute)
		if _, err := payments.StartReconciler(cfg.ReconcileCron, reconciler); err != nil {
			utils.Log.Fatal().Err(err).Str("schedule", cfg.ReconcileCron).Msg("invalid RECONCILE_CRON")
		}
	}

	utils.Log.Info().Str("port", cfg.Port).Msg("server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		utils.Log.Fatal().Err(err).Msg("server stopped")
	}
}
