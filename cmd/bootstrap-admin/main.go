// Command bootstrap-admin creates the first condominium and its admin account
// on an empty database. It is idempotent: an existing account with the given
// email is left alone, and a condominium left behind by a failed run is
// reused instead of created again.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/postgres"
	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/platform/logging"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

const timeout = 30 * time.Second

type options struct {
	databaseURL string
	condoName   string
	name        string
	email       string
	password    string
	dryRun      bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	var verbose bool
	flag.StringVar(&opts.databaseURL, "database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
	flag.StringVar(&opts.condoName, "condominium", "Administração", "Name of the condominium that hosts the admin")
	flag.StringVar(&opts.name, "name", "Administrador", "Admin display name")
	flag.StringVar(&opts.email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email (or set ADMIN_EMAIL env)")
	flag.StringVar(&opts.password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password (or set ADMIN_PASSWORD env)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Check only, do not write")
	flag.BoolVar(&verbose, "verbose", false, "Verbose logging")
	flag.Parse()

	level := "info"
	if verbose {
		level = "debug"
	}
	logging.InitLogger(level, "text")

	if opts.databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}
	if opts.email == "" || len(opts.password) < 8 {
		log.Fatal("Admin email and a password of at least 8 characters are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	pool, err := postgres.Connect(ctx, opts.databaseURL, nil)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		return err
	}

	users := postgres.NewUserRepo(pool)
	existing, err := users.GetByEmail(ctx, opts.email)
	switch {
	case err == nil:
		slog.Info("Admin already exists, nothing to do", "user_id", existing.ID, "role", existing.Role)
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if opts.dryRun {
		slog.Info("Dry run: would create condominium and admin", "condominium", opts.condoName, "email", opts.email)
		return nil
	}

	condos := postgres.NewCondominiumRepo(pool)
	// Only account management is used, so no cache, publisher or issuer.
	svc := app.NewService(app.Repositories{
		Condominiums: condos,
		Users:        users,
	}, nil, nil, nil, clockwork.NewRealClock(), nil)

	condo, err := condos.GetByName(ctx, strings.TrimSpace(opts.condoName))
	switch {
	case err == nil:
		slog.Info("Reusing existing condominium", "condominium_id", condo.ID)
	case errors.Is(err, domain.ErrNotFound):
		condo, err = svc.CreateCondominium(ctx, app.CondominiumInput{Name: opts.condoName})
		if err != nil {
			return fmt.Errorf("failed to create condominium: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up condominium: %w", err)
	}

	bootstrap := app.Actor{CondominiumID: condo.ID, Role: domain.RoleAdmin}
	admin, err := svc.CreateUser(ctx, bootstrap, app.UserInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("Bootstrap complete", "condominium_id", condo.ID, "user_id", admin.ID)
	return nil
}
