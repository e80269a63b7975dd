package main

import (
	"context"
	"fmt"
	"time"

	"carbid-backend/internal/application/closer"
	"carbid-backend/internal/application/emails"
	"carbid-backend/internal/config"
	"carbid-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var fiberApp *fiber.App
var appCfg *config.Config
var startupDB *gorm.DB
var startupRdb *redis.Client

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	appCfg = cfg
	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}
	fiberApp = app
	startupDB = db
	startupRdb = rdb
}

// startSweeper runs the auction closing sweep on a fixed interval so expired
// auctions resolve even when no external scheduler calls the cron endpoint.
func startSweeper(ctx context.Context, cfg *config.Config, db *gorm.DB) {
	if db == nil || cfg.SweepIntervalMin <= 0 {
		return
	}
	var sender emails.Sender
	if cfg.ResendAPIKey != "" {
		sender = &emails.ResendClient{
			APIKey:     cfg.ResendAPIKey,
			MailFrom:   cfg.MailFrom,
			AppBaseURL: cfg.AppBaseURL,
		}
	}
	svc := &closer.Service{DB: db, Emails: sender}
	interval := time.Duration(cfg.SweepIntervalMin) * time.Minute

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report, err := svc.RunSweep(ctx, time.Now())
				if err != nil {
					log.Error().Err(err).Msg("scheduled sweep failed")
					continue
				}
				if len(report.Resolved) > 0 || len(report.Errors) > 0 {
					log.Info().
						Int("resolved", len(report.Resolved)).
						Int("skipped", len(report.Skipped)).
						Int("errors", len(report.Errors)).
						Msg("scheduled sweep completed")
				}
			}
		}
	}()
}

func main() {
	port := appCfg.Port

	if startupDB != nil {
		sqlDB, err := startupDB.DB()
		if err != nil {
			panic("Postgres: get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		fmt.Println("Postgres connected")
	}
	if startupRdb != nil {
		if err := startupRdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}

	startSweeper(context.Background(), appCfg, startupDB)

	fmt.Printf("Server running at http://localhost:%s\n", port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", port)
	fmt.Println("---")

	if err := fiberApp.Listen(":" + port); err != nil {
		panic(err)
	}
}
