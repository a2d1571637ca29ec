package rest

import (
	"time"

	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

// Response shapes. Password hashes never leave the server.

type subjectView struct {
	Role identity.Role `json:"role"`
	ID   int64         `json:"id"`
}

func viewSubject(s identity.Subject) subjectView {
	return subjectView{Role: s.Role, ID: s.ID}
}

type accountView struct {
	ID                int64         `json:"id"`
	Role              identity.Role `json:"role"`
	Email             string        `json:"email"`
	Username          string        `json:"username"`
	DisplayName       string        `json:"display_name"`
	Active            bool          `json:"active"`
	ProfilePictureKey string        `json:"profile_picture_key,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

func viewAccount(a *identity.Account) accountView {
	return accountView{
		ID:                a.ID,
		Role:              a.Role,
		Email:             a.Email,
		Username:          a.Username,
		DisplayName:       a.DisplayName,
		Active:            a.Active,
		ProfilePictureKey: a.ProfilePictureKey,
		CreatedAt:         a.CreatedAt,
	}
}

type sessionView struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	Account   accountView `json:"account"`
}

type postView struct {
	ID         int64       `json:"id"`
	Author     subjectView `json:"author"`
	CategoryID *int64      `json:"category_id,omitempty"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Status     string      `json:"status"`
	Likes      int64       `json:"likes"`
	Dislikes   int64       `json:"dislikes"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func viewPost(p *models.Post) postView {
	return postView{
		ID:         p.ID,
		Author:     viewSubject(p.Author),
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Body:       p.Body,
		Status:     p.Status,
		Likes:      p.Likes,
		Dislikes:   p.Dislikes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type commentView struct {
	ID        int64       `json:"id"`
	PostID    int64       `json:"post_id"`
	ParentID  *int64      `json:"parent_id,omitempty"`
	Author    subjectView `json:"author"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func viewComment(c *models.Comment) commentView {
	return commentView{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Author:    viewSubject(c.Author),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type categoryView struct {
	ID          int64       `json:"id"`
	Creator     subjectView `json:"creator"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

func viewCategory(c *models.Category) categoryView {
	return categoryView{
		ID:          c.ID,
		Creator:     viewSubject(c.Creator),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

type contentView struct {
	ID        int64       `json:"id"`
	Creator   subjectView `json:"creator"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func viewContent(c *models.Content) contentView {
	return contentView{
		ID:        c.ID,
		Creator:   viewSubject(c.Creator),
		Title:     c.Title,
		Body:      c.Body,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type subscriptionView struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type wishlistView struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type shareView struct {
	ID        int64       `json:"id"`
	Sender    subjectView `json:"sender"`
	Recipient subjectView `json:"recipient"`
	PostID    int64       `json:"post_id"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func viewShare(s *models.Share) shareView {
	return shareView{
		ID:        s.ID,
		Sender:    viewSubject(s.Sender),
		Recipient: viewSubject(s.Recipient),
		PostID:    s.PostID,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
}

func mapSlice[T any, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
