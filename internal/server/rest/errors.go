package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techelevate/platform/internal/common"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
}

// statusFor maps the error taxonomy to HTTP. Unknown errors are 500 and
// never reach the client verbatim.
func statusFor(err error) (int, errorResponse) {
	var deny *common.DenyError
	var conflict *common.ConflictError

	switch {
	case common.IsCredentialError(err):
		return http.StatusUnauthorized, errorResponse{Error: credentialMessage(err)}
	case errors.As(err, &deny):
		if deny.Reason == common.ReasonUnauthenticated {
			return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Reason: deny.Reason}
		}
		return http.StatusForbidden, errorResponse{Error: "forbidden", Reason: deny.Reason}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorResponse{Error: conflict.Error(), Field: conflict.Field}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}
}

func credentialMessage(err error) string {
	for _, e := range []error{
		common.ErrorUnauthorized,
		common.ErrMissingCredential,
		common.ErrInvalidAuthHeader,
		common.ErrExpiredCredential,
		common.ErrRevokedCredential,
		common.ErrAccountDeactivated,
	} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	// Malformed tokens and vanished accounts look the same to the client.
	return "invalid token"
}

func (s *Server) abort(c *gin.Context, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error(), "request_id", c.GetString(requestIDKey))
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, msg)
}
