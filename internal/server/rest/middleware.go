package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/auth"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/services"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

// requestID propagates a caller supplied X-Request-ID or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog never logs headers, so credentials stay out of the log.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}
		if p := principal(c); p != nil {
			args = append(args, "subject", p.Subject().String())
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

// requireAuth rejects requests without a valid bearer token before any
// handler, and therefore before the guard, runs.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticate(c, true) {
			return
		}
		c.Next()
	}
}

// optionalAuth lets anonymous callers through but still rejects a header
// that is present and bad.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticate(c, false) {
			return
		}
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context, required bool) bool {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if header == "" && !required {
		return true
	}

	token, err := auth.ParseBearer(header)
	if err != nil {
		s.abort(c, err)
		return false
	}

	p, err := s.accounts.Authenticate(c.Request.Context(), token)
	if err != nil {
		s.abort(c, err)
		return false
	}
	c.Set(principalKey, p)
	return true
}

func principal(c *gin.Context) *services.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*services.Principal)
	return p
}

// actor is nil for anonymous requests.
func actor(c *gin.Context) *identity.Subject {
	return principal(c).Actor()
}
