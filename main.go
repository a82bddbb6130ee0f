// main.go
package main

import (
	"context"
	"log"
	"time"

	"crowdfunding/cmd"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/wire"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/database"
	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("mail_driver", config.Mail.Driver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.RunMigrations(config.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis backs logout revocation and rate limiting; without it both degrade
	var (
		revocations cache.RevocationStore
		counter     cache.Counter
	)
	rdb, err := cache.NewRedisClient(ctx, config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, session denylist and rate limiting disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		revocations = cache.NewRevocationStore(rdb)
		counter = cache.NewCounter(rdb)
		logger.Info("Redis connected successfully")
	}

	notifier, closeNotifier := newNotifier(config, logger)
	defer closeNotifier()

	clock := utils.SystemClock{}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:        repos,
		Config:      config,
		Codec:       token.NewCodec(config.JWT.Secret, clock),
		Notifier:    notifier,
		Revocations: revocations,
		Counter:     counter,
		Clock:       clock,
	}, logger)

	go cmd.SessionJanitor(ctx, time.Hour, repos.Session.CleanExpiredSessions, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

// newNotifier picks the email transport named by MAIL_DRIVER.
func newNotifier(config *utils.Config, logger *zap.Logger) (mailer.Notifier, func()) {
	switch config.Mail.Driver {
	case "mailgun":
		return mailer.NewMailgun(config.Mail.MailgunDomain, config.Mail.MailgunAPIKey, config.Mail.Sender), func() {}
	case "queue":
		pub, err := mailer.NewRabbitPublisher(config.RabbitMQ.URL, config.RabbitMQ.EmailQueue)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		return mailer.NewQueueNotifier(pub), pub.Close
	default:
		return mailer.NewLogNotifier(logger), func() {}
	}
}
