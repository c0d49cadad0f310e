package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/helpmate/helpdesk/internal/auth"
	"github.com/helpmate/helpdesk/internal/domain"
	"github.com/helpmate/helpdesk/internal/repository"
)

// SeedDemoData inserts a demo admin and a demo user when neither exists
// yet. Intended for development environments only, behind a config flag.
func SeedDemoData(ctx context.Context, users repository.UserRepository, bcryptCost int, logger *zap.Logger) error {
	demo := []struct {
		name  string
		email string
		role  domain.Role
	}{
		{name: "Admin User", email: "admin@example.com", role: domain.RoleAdmin},
		{name: "John Doe", email: "john@example.com", role: domain.RoleUser},
	}

	hash, err := auth.HashPassword("password", bcryptCost)
	if err != nil {
		return err
	}

	for _, account := range demo {
		user := &domain.User{
			Name:         account.name,
			Email:        account.email,
			PasswordHash: hash,
			Role:         account.role,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				continue
			}
			return err
		}
		logger.Info("seeded demo account", zap.String("email", account.email), zap.String("role", string(account.role)))
	}
	return nil
}
