package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// EnsureAdmin creates username as an admin unless a user with that name
// already exists. An existing user keeps its role and password.
func EnsureAdmin(ctx context.Context, users repo.UserRepository, username, password string) (created bool, err error) {
	_, err = users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return false, fmt.Errorf("look up %s: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
	})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		// another replica got there first
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin %s: %w", username, err)
	}
	return true, nil
}
