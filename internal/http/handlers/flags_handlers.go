package handlers

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront/internal/auth"
	"go.uber.org/zap"
)

var flagKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

func flagKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if !flagKeyPattern.MatchString(key) {
		http.Error(w, "invalid flag key", http.StatusBadRequest)
		return "", false
	}
	return key, true
}

// GetFlagsHandler godoc
// @Summary All flags of the current user
// @Tags flags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /me/flags [get]
func GetFlagsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	all, err := flagStore.All(r.Context(), claims.UserID)
	if err != nil {
		logger.Error("list flags", zap.Int("user_id", claims.UserID), zap.Error(err))
		http.Error(w, "could not fetch flags", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// SetFlagHandler godoc
// @Summary Set a flag for the current user
// @Tags flags
// @Accept json
// @Security BearerAuth
// @Param key path string true "Flag key"
// @Param flag body FlagRequest true "Flag value"
// @Success 204 "Stored"
// @Failure 400 {string} string "Invalid input"
// @Router /me/flags/{key} [put]
func SetFlagHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	key, ok := flagKey(w, r)
	if !ok {
		return
	}
	var req FlagRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if err := flagStore.Set(r.Context(), claims.UserID, key, req.Value); err != nil {
		logger.Error("set flag", zap.Int("user_id", claims.UserID), zap.String("key", key), zap.Error(err))
		http.Error(w, "could not store flag", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFlagHandler godoc
// @Summary Delete a flag of the current user
// @Tags flags
// @Security BearerAuth
// @Param key path string true "Flag key"
// @Success 204 "Deleted"
// @Router /me/flags/{key} [delete]
func DeleteFlagHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	key, ok := flagKey(w, r)
	if !ok {
		return
	}
	if err := flagStore.Delete(r.Context(), claims.UserID, key); err != nil {
		logger.Error("delete flag", zap.Int("user_id", claims.UserID), zap.String("key", key), zap.Error(err))
		http.Error(w, "could not delete flag", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
