package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/telconnect/telconnect/internal/config"
	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/repositories"
	pkgauth "github.com/telconnect/telconnect/pkg/auth"
)

// admintool is the operational companion to the server: creating admin
// accounts, clearing lockouts and verifying credentials without going
// through the web form.
const usage = `Usage: admintool <command> [flags]

Commands:
  create  -username <name> -password <password>   Create an admin account
  unlock  -username <name>                        Clear a lockout and reset the failure counter
  verify  -username <name> -password <password>   Check a password against the stored hash
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repositories.NewAuthRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "create":
		err = runCreate(ctx, repo, os.Args[2:])
	case "unlock":
		err = runUnlock(ctx, repo, os.Args[2:])
	case "verify":
		err = runVerify(ctx, repo, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runCreate(ctx context.Context, repo *repositories.AuthRepository, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		return errors.New("create: -username and -password are required")
	}

	if err := pkgauth.ValidatePassword(*password); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	hash, err := pkgauth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	admin, err := repo.Create(ctx, &models.AdminAccount{
		Username:     *username,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return fmt.Errorf("create: username %q already exists", *username)
		}
		return fmt.Errorf("create: %w", err)
	}

	fmt.Printf("created admin %q (id %s)\n", admin.Username, admin.ID)
	return nil
}

func runUnlock(ctx context.Context, repo *repositories.AuthRepository, args []string) error {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	fs.Parse(args)

	if *username == "" {
		return errors.New("unlock: -username is required")
	}

	if err := repo.Unlock(ctx, *username); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("unlock: no admin named %q", *username)
		}
		return fmt.Errorf("unlock: %w", err)
	}

	fmt.Printf("unlocked admin %q\n", *username)
	return nil
}

func runVerify(ctx context.Context, repo *repositories.AuthRepository, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "password to check")
	fs.Parse(args)

	if *username == "" || *password == "" {
		return errors.New("verify: -username and -password are required")
	}

	admin, err := repo.GetByUsername(ctx, *username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("verify: no admin named %q", *username)
		}
		return fmt.Errorf("verify: %w", err)
	}

	if err := pkgauth.ComparePassword(admin.PasswordHash, *password); err != nil {
		return errors.New("verify: password does NOT match")
	}

	fmt.Printf("password matches for %q\n", *username)
	if !admin.IsActive {
		fmt.Println("note: account is disabled")
	}
	if admin.Locked(time.Now()) {
		fmt.Printf("note: account is locked until %s\n", admin.LockedUntil.Format(time.RFC3339))
	}
	return nil
}
