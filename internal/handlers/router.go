package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/verifylink/internal/handlers/middleware"
	"github.com/nkiryanov/verifylink/internal/logger"
	"github.com/nkiryanov/verifylink/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	userService userService,
	verificationService verificationService,
	baseLink string,
	logger logger.Logger,
) http.Handler {
	api := http.NewServeMux()

	api.Handle("POST /users", handleCreateUser(userService, logger))
	api.Handle("GET /users/{id}/verification", handleUserVerification(verificationService, logger))
	api.Handle("GET /users/{id}/tokens/{token}", handleTokenState(verificationService, logger))
	api.Handle("POST /links", handleIssueLink(verificationService, baseLink, logger))
	api.Handle("POST /verify", handleVerify(verificationService, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type userService interface {
	// Create user with known id
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	CreateUser(ctx context.Context, userID int64, username string) (models.User, error)
}

type verificationService interface {
	// Issue new token and return link with it
	// Has to return apperrors.ErrUserNotFound if user not exists
	IssueLink(ctx context.Context, userID int64, baseLink string) (string, error)

	// Return state of the user token
	TokenState(ctx context.Context, userID int64, token string) (models.TokenState, error)

	// Mark token used and record user verified
	// Has to return apperrors.ErrTokenIsUsed if token was already used, even concurrently
	Verify(ctx context.Context, userID int64, token string) error

	// Check user redeemed token today
	HasVerifiedToday(ctx context.Context, userID int64) (bool, error)
}
