package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techelevate/platform/internal/server/identity"
)

func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.abort(c, badRequest("invalid request body"))
		return false
	}
	return true
}

func (s *Server) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		s.abort(c, badRequest("invalid "+name))
		return 0, false
	}
	return id, true
}

// subjectParam reads the :role and :id path segments.
func (s *Server) subjectParam(c *gin.Context) (identity.Subject, bool) {
	role, err := identity.ParseRole(c.Param("role"))
	if err != nil {
		s.abort(c, err)
		return identity.Subject{}, false
	}
	id, ok := s.idParam(c, "id")
	if !ok {
		return identity.Subject{}, false
	}
	return identity.Subject{Role: role, ID: id}, true
}
