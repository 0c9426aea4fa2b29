// Seeds a demo user with a few sample applications. Safe to run more
// than once: existing data is left alone.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/db"
	"github.com/jobhunt/jobhunt/internal/domain/application"
	"github.com/jobhunt/jobhunt/internal/domain/user"
	"github.com/jobhunt/jobhunt/internal/observability"
	"github.com/jobhunt/jobhunt/internal/repo/postgres"
	"github.com/jobhunt/jobhunt/internal/security"
)

const (
	demoEmail    = "demo@jobhunt.dev"
	demoPassword = "Demo123!"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	users := postgres.NewUsersRepo(pool, nil)
	apps := postgres.NewApplicationsRepo(pool, nil)

	u, err := users.GetByEmail(ctx, demoEmail)

	switch {
	case err == nil:
		log.Info("demo user already exists", "email", demoEmail)

	case errors.Is(err, user.ErrNotFound):
		hash, err := security.HashPassword(demoPassword, cfg.BcryptCost)

		if err != nil {
			log.Error("hash failed", "err", err)
			os.Exit(1)
		}

		u, err = users.Create(ctx, demoEmail, hash)

		if err != nil {
			log.Error("create demo user failed", "err", err)
			os.Exit(1)
		}

		log.Info("created demo user", "email", demoEmail)

	default:
		log.Error("lookup failed", "err", err)
		os.Exit(1)
	}

	existing, err := apps.ListByOwner(ctx, u.ID)

	if err != nil {
		log.Error("list failed", "err", err)
		os.Exit(1)
	}

	if len(existing) > 0 {
		log.Info("applications already exist, skipping seed", "count", len(existing))
		return
	}

	nextAction := time.Now().UTC().Add(3 * 24 * time.Hour)

	samples := []application.CreateApplicationRequest{
		{Company: "Acme Co", Role: "Junior Full-Stack Developer", Location: "Sydney", Status: application.StatusApplied, Link: "https://example.com"},
		{Company: "Example Pty", Role: "Backend Developer", Location: "Melbourne", Status: application.StatusInterview, NextActionAt: &nextAction},
		{Company: "Startup X", Role: "Go Developer", Location: "Brisbane", Status: application.StatusRejected},
	}

	for _, req := range samples {
		if _, err := apps.Create(ctx, u.ID, req); err != nil {
			log.Error("seed application failed", "company", req.Company, "err", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded %d sample applications for %s\n", len(samples), demoEmail)
}
