package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
	"github.com/techelevate/platform/internal/server/services"
)

type statusRequest struct {
	Status string `json:"status"`
}

type bodyRequest struct {
	Body string `json:"body"`
}

type subscribeRequest struct {
	CategoryID int64 `json:"category_id"`
}

type wishlistRequest struct {
	PostID int64 `json:"post_id"`
}

func (s *Server) listPosts(c *gin.Context) {
	var category *int64
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			s.abort(c, badRequest("invalid category_id"))
			return
		}
		category = &id
	}
	list, err := s.content.ListPosts(c.Request.Context(), category)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewPost))
}

func (s *Server) getPost(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	p, err := s.content.GetPost(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewPost(p))
}

func (s *Server) createPost(c *gin.Context) {
	var in services.PostInput
	if !s.bind(c, &in) {
		return
	}
	p, err := s.content.CreatePost(c.Request.Context(), actor(c), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewPost(p))
}

func (s *Server) updatePost(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in services.PostInput
	if !s.bind(c, &in) {
		return
	}
	p, err := s.content.UpdatePost(c.Request.Context(), actor(c), id, in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewPost(p))
}

func (s *Server) deletePost(c *gin.Context) {
	s.deleteBy(c, s.content.DeletePost)
}

func (s *Server) setPostStatus(c *gin.Context) {
	s.statusBy(c, s.content.SetPostStatus)
}

func (s *Server) react(like bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.idParam(c, "id")
		if !ok {
			return
		}
		if err := s.content.React(c.Request.Context(), actor(c), id, like); err != nil {
			s.abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) listComments(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	list, err := s.content.ListComments(c.Request.Context(), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewComment))
}

func (s *Server) createComment(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in services.CommentInput
	if !s.bind(c, &in) {
		return
	}
	cm, err := s.content.CreateComment(c.Request.Context(), actor(c), id, in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewComment(cm))
}

func (s *Server) updateComment(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in bodyRequest
	if !s.bind(c, &in) {
		return
	}
	cm, err := s.content.UpdateComment(c.Request.Context(), actor(c), id, in.Body)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewComment(cm))
}

func (s *Server) deleteComment(c *gin.Context) {
	s.deleteBy(c, s.content.DeleteComment)
}

func (s *Server) listCategories(c *gin.Context) {
	list, err := s.content.ListCategories(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewCategory))
}

func (s *Server) createCategory(c *gin.Context) {
	var in services.CategoryInput
	if !s.bind(c, &in) {
		return
	}
	cat, err := s.content.CreateCategory(c.Request.Context(), actor(c), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewCategory(cat))
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !s.bind(c, &in) {
		return
	}
	cat, err := s.content.UpdateCategory(c.Request.Context(), actor(c), id, in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewCategory(cat))
}

func (s *Server) deleteCategory(c *gin.Context) {
	s.deleteBy(c, s.content.DeleteCategory)
}

func (s *Server) moderateDeleteCategory(c *gin.Context) {
	s.deleteBy(c, s.content.ModerateDeleteCategory)
}

func (s *Server) listContents(c *gin.Context) {
	list, err := s.content.ListPublishedContent(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewContent))
}

func (s *Server) moderationQueue(c *gin.Context) {
	status := c.DefaultQuery("status", models.ContentPending)
	list, err := s.content.ListContentByStatus(c.Request.Context(), actor(c), status)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewContent))
}

func (s *Server) getContent(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	item, err := s.content.GetContent(c.Request.Context(), actor(c), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewContent(item))
}

func (s *Server) createContent(c *gin.Context) {
	var in services.ContentInput
	if !s.bind(c, &in) {
		return
	}
	item, err := s.content.CreateContent(c.Request.Context(), actor(c), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewContent(item))
}

func (s *Server) updateContent(c *gin.Context) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in services.ContentInput
	if !s.bind(c, &in) {
		return
	}
	item, err := s.content.UpdateContent(c.Request.Context(), actor(c), id, in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewContent(item))
}

func (s *Server) setContentStatus(c *gin.Context) {
	s.statusBy(c, s.content.SetContentStatus)
}

func (s *Server) deleteContent(c *gin.Context) {
	s.deleteBy(c, s.content.DeleteContent)
}

func (s *Server) listSubscriptions(c *gin.Context) {
	list, err := s.content.ListSubscriptions(c.Request.Context(), actor(c))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, func(v *models.Subscription) subscriptionView {
		return subscriptionView{ID: v.ID, CategoryID: v.CategoryID, CreatedAt: v.CreatedAt}
	}))
}

func (s *Server) subscribe(c *gin.Context) {
	var in subscribeRequest
	if !s.bind(c, &in) {
		return
	}
	if in.CategoryID <= 0 {
		s.abort(c, badRequest("category_id is required"))
		return
	}
	sub, err := s.content.Subscribe(c.Request.Context(), actor(c), in.CategoryID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, subscriptionView{ID: sub.ID, CategoryID: sub.CategoryID, CreatedAt: sub.CreatedAt})
}

func (s *Server) unsubscribe(c *gin.Context) {
	s.deleteBy(c, s.content.Unsubscribe)
}

func (s *Server) listWishlist(c *gin.Context) {
	list, err := s.content.ListWishlist(c.Request.Context(), actor(c))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, func(v *models.WishlistEntry) wishlistView {
		return wishlistView{ID: v.ID, PostID: v.PostID, CreatedAt: v.CreatedAt}
	}))
}

func (s *Server) addToWishlist(c *gin.Context) {
	var in wishlistRequest
	if !s.bind(c, &in) {
		return
	}
	if in.PostID <= 0 {
		s.abort(c, badRequest("post_id is required"))
		return
	}
	w, err := s.content.AddToWishlist(c.Request.Context(), actor(c), in.PostID)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, wishlistView{ID: w.ID, PostID: w.PostID, CreatedAt: w.CreatedAt})
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	s.deleteBy(c, s.content.RemoveFromWishlist)
}

func (s *Server) listSentShares(c *gin.Context) {
	list, err := s.content.ListSentShares(c.Request.Context(), actor(c))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewShare))
}

func (s *Server) listReceivedShares(c *gin.Context) {
	list, err := s.content.ListReceivedShares(c.Request.Context(), actor(c))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, viewShare))
}

func (s *Server) sharePost(c *gin.Context) {
	var in services.ShareInput
	if !s.bind(c, &in) {
		return
	}
	sh, err := s.content.SharePost(c.Request.Context(), actor(c), in)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewShare(sh))
}

func (s *Server) deleteShare(c *gin.Context) {
	s.deleteBy(c, s.content.DeleteShare)
}

type byID func(ctx context.Context, actor *identity.Subject, id int64) error

func (s *Server) deleteBy(c *gin.Context, del byID) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), actor(c), id); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusSetter func(ctx context.Context, actor *identity.Subject, id int64, status string) error

func (s *Server) statusBy(c *gin.Context, set statusSetter) {
	id, ok := s.idParam(c, "id")
	if !ok {
		return
	}
	var in statusRequest
	if !s.bind(c, &in) {
		return
	}
	if err := set(c.Request.Context(), actor(c), id, in.Status); err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
