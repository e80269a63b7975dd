package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"carbid-backend/internal/application/closer"
	"carbid-backend/internal/application/emails"
	"carbid-backend/internal/config"
	"carbid-backend/internal/infrastructure/database"
)

// One-shot closing sweep for external schedulers (cron, CI, container jobs).
// Exits non-zero when the sweep itself fails; per-car errors are reported but
// do not fail the run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "database open:", err)
		os.Exit(1)
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
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := svc.RunSweep(ctx, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		os.Exit(1)
	}

	fmt.Printf("resolved=%d skipped=%d errors=%d\n", len(report.Resolved), len(report.Skipped), len(report.Errors))
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "car %s: %s\n", e.CarID, e.Err)
	}
}
