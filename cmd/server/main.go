package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/database"
	"github.com/iliyamo/camp-registration/internal/handler"
	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/queue"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/router"
	"github.com/iliyamo/camp-registration/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: without it the webhook runs unthrottled and the
	// camps listing uncached.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	store := repository.NewStore(db)
	sender := mail.NewPublisher(cfg.EmailQueueURL, cfg.EmailTimeout)

	ingestSvc := service.NewIngestion(cfg, store, sender)
	reminderSvc := service.NewReminder(cfg, store, sender)

	// Drain the outbound email queue in the background.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Handlers{
		Ingest:       handler.NewIngestHandler(ingestSvc),
		Reminder:     handler.NewReminderHandler(reminderSvc),
		Registration: handler.NewRegistrationHandler(store, sender),
		Camps:        handler.NewCampHandler(store.Camps),
	}, cfg.JobSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
