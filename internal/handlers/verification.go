package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/handlers/render"
	"github.com/nkiryanov/verifylink/internal/logger"
	"github.com/nkiryanov/verifylink/internal/service/verification"
)

func handleIssueLink(verificationService verificationService, baseLink string, l logger.Logger) http.Handler {
	type request struct {
		UserID int64 `json:"user_id" validate:"required,gt=0"`
	}

	type response struct {
		Link string `json:"link"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		link, err := verificationService.IssueLink(r.Context(), data.UserID, baseLink)
		switch {
		case err == nil:
			render.JSONWithStatus(w, response{link}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to issue link", "error", err, "user_id", data.UserID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTokenState(verificationService verificationService, l logger.Logger) http.Handler {
	type response struct {
		State string `json:"state"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromPath(w, r)
		if !ok {
			return
		}

		state, err := verificationService.TokenState(r.Context(), userID, r.PathValue("token"))
		switch {
		case err == nil:
			render.JSON(w, response{string(state)})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get token state", "error", err, "user_id", userID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Redeem token from the link payload
// Only the request that marked the token used verifies user, others get 409 or 404
func handleVerify(verificationService verificationService, l logger.Logger) http.Handler {
	type request struct {
		Payload string `json:"payload" validate:"required,verify_payload"`
	}

	type response struct {
		UserID   int64 `json:"user_id"`
		Verified bool  `json:"verified"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		userID, token, err := verification.ParsePayload(data.Payload)
		if err != nil {
			render.ServiceError(w, "Invalid verification payload", http.StatusBadRequest)
			return
		}

		err = verificationService.Verify(r.Context(), userID, token)
		switch {
		case err == nil:
			render.JSON(w, response{UserID: userID, Verified: true})
		case errors.Is(err, apperrors.ErrTokenIsUsed):
			render.ServiceError(w, "Token already used", http.StatusConflict)
		case errors.Is(err, apperrors.ErrTokenNotFound):
			render.ServiceError(w, "Token not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserIDInvalid):
			render.ServiceError(w, "Invalid verification payload", http.StatusBadRequest)
		default:
			l.Error("Failed to verify token", "error", err, "user_id", userID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
