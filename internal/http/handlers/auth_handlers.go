package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	if len(creds.Username) < 3 || len(creds.Password) < 6 {
		http.Error(w, "username or password too short", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := userRepo.CreateUser(r.Context(), models.User{
		Username:     creds.Username,
		PasswordHash: string(hashed),
		Role:         auth.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already exists", http.StatusConflict)
			return
		}
		logger.Error("register user", zap.String("username", creds.Username), zap.Error(err))
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	token, refresh, err := issueTokens(r.Context(), user)
	if err != nil {
		logger.Error("issue tokens", zap.String("username", user.Username), zap.Error(err))
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResult{
		Message:      "user registered",
		Token:        token,
		RefreshToken: refresh,
	})
}

// RegisterAsAdminHandler godoc
// @Summary Create user with custom role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "User to create with role"
// @Success 201 {object} UserCreatedResult
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Router /admin/users [post]
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Role == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}
	if len(req.Username) < 3 || len(req.Password) < 6 {
		http.Error(w, "username or password too short", http.StatusBadRequest)
		return
	}
	if req.Role != auth.RoleAdmin && req.Role != auth.RoleUser {
		http.Error(w, "role must be admin or user", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user, err := userRepo.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already exists", http.StatusConflict)
			return
		}
		logger.Error("create user", zap.String("username", req.Username), zap.Error(err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	if claims, ok := auth.FromContext(r.Context()); ok {
		logger.Info("user created by admin",
			zap.String("username", user.Username),
			zap.String("role", user.Role),
			zap.String("created_by", claims.Username),
		)
	}
	writeJSON(w, http.StatusCreated, UserCreatedResult{
		Message:  "User created",
		Username: user.Username,
		Role:     user.Role,
	})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, refresh, err := issueTokens(r.Context(), user)
	if err != nil {
		logger.Error("issue tokens", zap.String("username", user.Username), zap.Error(err))
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh})
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Description The refresh token is single use; the response carries its replacement.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	username, err := refreshStore.Consume(r.Context(), req.RefreshToken)
	if err != nil {
		if !errors.Is(err, auth.ErrRefreshTokenNotFound) {
			logger.Error("consume refresh token", zap.Error(err))
		}
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	// Role changes since the last login apply from here on.
	user, err := userRepo.GetByUsername(r.Context(), username)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	token, refresh, err := issueTokens(r.Context(), user)
	if err != nil {
		logger.Error("issue tokens", zap.String("username", user.Username), zap.Error(err))
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh})
}

func issueTokens(ctx context.Context, user models.User) (access, refresh string, err error) {
	access, err = auth.GenerateToken(user)
	if err != nil {
		return "", "", err
	}
	refresh = auth.NewRefreshToken()
	if err := refreshStore.Save(ctx, refresh, user.Username, refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
