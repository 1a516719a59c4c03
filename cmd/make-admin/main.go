// Command make-admin grants the Admin role to an existing account.
//
//	make-admin -email someone@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/persistence"
	"github.com/spec-kit/community-directory/internal/repository"
)

func main() {
	emailFlag := flag.String("email", "", "email of the account to promote")
	flag.Parse()

	email := strings.TrimSpace(*emailFlag)
	if email == "" {
		fmt.Fprintln(os.Stderr, "usage: make-admin -email someone@example.com")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	users := repository.NewUserRepository(pg.PoolHandle())
	user, err := users.SetRoleByEmail(ctx, email, domain.RoleAdmin)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Error("no account with that email", zap.String("email", email))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to promote user", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("user promoted to admin", zap.String("user_id", user.ID), zap.String("email", user.Email))
}
