package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/lost-pet-registry/internal/config"
	"github.com/iliyamo/lost-pet-registry/internal/database"
	"github.com/iliyamo/lost-pet-registry/internal/handler"
	"github.com/iliyamo/lost-pet-registry/internal/notify"
	"github.com/iliyamo/lost-pet-registry/internal/queue"
	"github.com/iliyamo/lost-pet-registry/internal/repository"
	"github.com/iliyamo/lost-pet-registry/internal/router"
	"github.com/iliyamo/lost-pet-registry/internal/search"
	"github.com/iliyamo/lost-pet-registry/internal/service"
	"github.com/iliyamo/lost-pet-registry/internal/uploader"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the search index plus rate limiting and response caching.
	// A nil client disables all three; writes keep working without search.
	rdb := config.NewRedisClient()
	var idx search.PetIndex = search.Disabled{}
	if rdb != nil {
		idx = search.NewRedisIndex(rdb)
	} else {
		log.Println("redis unavailable: public search disabled")
	}

	var up uploader.ImageUploader = uploader.Disabled{}
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		up = uploader.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}

	var mailer notify.Mailer = notify.DevMailer{}
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail)
	}

	dispatcher := service.NewDispatcher(cfg.AMQPURL, mailer)
	if cfg.AMQPURL != "" {
		go queue.StartReportConsumer(cfg.AMQPURL, mailer)
	}

	users := repository.NewUserRepo(db)
	pets := repository.NewPetRepo(db)
	reports := repository.NewReportRepo(db)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.Register(e, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Pets:   handler.NewPetHandler(pets, search.NewSynchronizer(idx), up),
		Search: handler.NewSearchHandler(idx),
		Report: handler.NewReportHandler(pets, reports, dispatcher),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("lost-pet-registry listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
