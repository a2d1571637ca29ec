package auth

import (
	"strings"

	"github.com/techelevate/platform/internal/common"
)

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively; anything else about the
// header must be exact.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", common.ErrMissingCredential
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrInvalidAuthHeader
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", common.ErrInvalidAuthHeader
	}
	return token, nil
}
