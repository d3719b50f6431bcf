package verification

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nkiryanov/verifylink/internal/apperrors"
)

const payloadPrefix = "verify-"

// Payload is the part of the link downstream handlers get back: verify-{userID}-{token}
func Payload(userID int64, token string) string {
	return payloadPrefix + strconv.FormatInt(userID, 10) + "-" + token
}

// BuildLink appends payload to base link as is, so base link has to end with something like '?start='
func BuildLink(baseLink string, userID int64, token string) string {
	return baseLink + Payload(userID, token)
}

// ParsePayload is the inverse of Payload
func ParsePayload(payload string) (userID int64, token string, err error) {
	rest, ok := strings.CutPrefix(payload, payloadPrefix)
	if !ok {
		return 0, "", fmt.Errorf("payload %q has no %q prefix: %w", payload, payloadPrefix, apperrors.ErrPayloadInvalid)
	}

	rawID, token, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, "", fmt.Errorf("payload %q has no token: %w", payload, apperrors.ErrPayloadInvalid)
	}

	userID, err = strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 || strings.HasPrefix(rawID, "+") {
		return 0, "", fmt.Errorf("payload %q has invalid user id: %w", payload, apperrors.ErrPayloadInvalid)
	}

	if !isAlphanumeric(token) {
		return 0, "", fmt.Errorf("payload %q has invalid token: %w", payload, apperrors.ErrPayloadInvalid)
	}

	return userID, token, nil
}
