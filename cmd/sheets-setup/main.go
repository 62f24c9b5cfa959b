package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/internal/service"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	"github.com/noah-isme/rbc-sheets-api/pkg/logger"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

func main() {
	var (
		seed          bool
		adminEmail    string
		adminPassword string
		timeout       time.Duration
	)
	flag.BoolVar(&seed, "seed", false, "Insert sample data into empty worksheets")
	flag.StringVar(&adminEmail, "admin-email", "admin@rbcomputer.com", "Email of the seeded administrator")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "Password of the seeded administrator")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for setup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, release, err := sheets.OpenClient(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open sheets backend", zap.Error(err))
	}
	defer release()

	svc := service.NewSheetsService(client, cfg.Sheets, cfg.Env, logr)

	results, err := svc.Setup(ctx)
	if err != nil {
		logr.Error("setup failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Check GOOGLE_SPREADSHEET_ID, GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY, and share the spreadsheet with the service account.")
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			fmt.Printf("  x %-14s %s\n", r.Worksheet, r.Error)
			continue
		}
		fmt.Printf("  ok %-13s %d columns\n", r.Worksheet, len(r.Headers))
	}

	if seed {
		added, err := svc.Seed(ctx, service.SeedOptions{AdminEmail: adminEmail, AdminPassword: adminPassword})
		for ws, n := range added {
			fmt.Printf("  seeded %-9s %d rows\n", ws, n)
		}
		if err != nil {
			logr.Error("seed failed", zap.Error(err))
			os.Exit(1)
		}
	}

	if failed > 0 {
		fmt.Printf("%d worksheet(s) failed to initialise\n", failed)
		os.Exit(1)
	}
	fmt.Println("Google Sheets setup completed")
}
