package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/services"
)

type loginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activeRequest struct {
	Active *bool `json:"active"`
}

func viewSession(sess *services.Session) sessionView {
	return sessionView{
		Token:     sess.Token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt,
		Account:   viewAccount(sess.Account),
	}
}

func (s *Server) register(c *gin.Context) {
	var in services.RegisterInput
	if !s.bind(c, &in) {
		return
	}
	sess, err := s.accounts.Register(c.Request.Context(), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewSession(sess))
}

func (s *Server) login(c *gin.Context) {
	var in loginRequest
	if !s.bind(c, &in) {
		return
	}
	role := identity.RoleMember
	if in.Role != "" {
		r, err := identity.ParseRole(in.Role)
		if err != nil {
			s.abort(c, err)
			return
		}
		role = r
	}

	sess, err := s.accounts.Login(c.Request.Context(), role, in.Email, in.Password)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewSession(sess))
}

func (s *Server) logout(c *gin.Context) {
	if err := s.accounts.Logout(c.Request.Context(), principal(c)); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, viewAccount(principal(c).Account))
}

func (s *Server) updateMe(c *gin.Context) {
	var in services.ProfileInput
	if !s.bind(c, &in) {
		return
	}
	a, err := s.accounts.UpdateProfile(c.Request.Context(), actor(c), principal(c).Subject(), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewAccount(a))
}

func (s *Server) changePassword(c *gin.Context) {
	var in services.PasswordInput
	if !s.bind(c, &in) {
		return
	}
	if err := s.accounts.ChangePassword(c.Request.Context(), actor(c), in); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) pictureUpload(c *gin.Context) {
	up, err := s.accounts.ProfilePictureUploadURL(c.Request.Context(), actor(c), principal(c).Subject())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": up.Key, "upload_url": up.URL})
}

func (s *Server) myPicture(c *gin.Context) {
	s.picture(c, principal(c).Subject())
}

func (s *Server) accountPicture(c *gin.Context) {
	target, ok := s.subjectParam(c)
	if !ok {
		return
	}
	s.picture(c, target)
}

func (s *Server) picture(c *gin.Context, target identity.Subject) {
	url, err := s.accounts.ProfilePictureURL(c.Request.Context(), actor(c), target)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

func (s *Server) listAccounts(c *gin.Context) {
	role, err := identity.ParseRole(c.Param("role"))
	if err != nil {
		s.abort(c, err)
		return
	}
	list, err := s.accounts.ListAccounts(c.Request.Context(), actor(c), role)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewAccount))
}

func (s *Server) createAdministrator(c *gin.Context) {
	var in services.RegisterInput
	if !s.bind(c, &in) {
		return
	}
	a, err := s.accounts.CreateAdministrator(c.Request.Context(), actor(c), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewAccount(a))
}

func (s *Server) getAccount(c *gin.Context) {
	target, ok := s.subjectParam(c)
	if !ok {
		return
	}
	a, err := s.accounts.Profile(c.Request.Context(), actor(c), target)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewAccount(a))
}

func (s *Server) setActive(c *gin.Context) {
	target, ok := s.subjectParam(c)
	if !ok {
		return
	}
	var in activeRequest
	if !s.bind(c, &in) {
		return
	}
	if in.Active == nil {
		s.abort(c, badRequest("active is required"))
		return
	}
	if err := s.accounts.SetActive(c.Request.Context(), actor(c), target, *in.Active); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAccount(c *gin.Context) {
	target, ok := s.subjectParam(c)
	if !ok {
		return
	}
	if err := s.accounts.DeleteAccount(c.Request.Context(), actor(c), target); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
