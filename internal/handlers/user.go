package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/handlers/render"
	"github.com/nkiryanov/verifylink/internal/logger"
)

func handleCreateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		ID       int64  `json:"id" validate:"required,gt=0"`
		Username string `json:"username" validate:"required,min=1,max=64"`
	}

	type response struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.CreateUser(r.Context(), data.ID, data.Username)
		switch {
		case err == nil:
			render.JSONWithStatus(w, response{user.ID, user.Username, user.CreatedAt}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			l.Error("Failed to create user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUserVerification(verificationService verificationService, l logger.Logger) http.Handler {
	type response struct {
		VerifiedToday bool `json:"verified_today"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		verified, err := verificationService.HasVerifiedToday(r.Context(), userID)
		switch {
		case err == nil:
			render.JSON(w, response{verified})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to check verification", "error", err, "user_id", userID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Parse '{id}' path value, render error if it is not valid
func userIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		render.ServiceError(w, "User id must be positive integer", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}
