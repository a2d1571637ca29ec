package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	authed := api.Group("", s.requireAuth())
	open := api.Group("", s.optionalAuth())

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	authed.POST("/auth/logout", s.logout)

	authed.GET("/me", s.me)
	authed.PUT("/me", s.updateMe)
	authed.PUT("/me/password", s.changePassword)
	authed.POST("/me/picture", s.pictureUpload)
	authed.GET("/me/picture", s.myPicture)

	authed.GET("/accounts/:role", s.listAccounts)
	authed.POST("/accounts/administrators", s.createAdministrator)
	authed.GET("/accounts/:role/:id", s.getAccount)
	authed.GET("/accounts/:role/:id/picture", s.accountPicture)
	authed.PUT("/accounts/:role/:id/active", s.setActive)
	authed.DELETE("/accounts/:role/:id", s.deleteAccount)

	open.GET("/posts", s.listPosts)
	open.GET("/posts/:id", s.getPost)
	authed.POST("/posts", s.createPost)
	authed.PUT("/posts/:id", s.updatePost)
	authed.DELETE("/posts/:id", s.deletePost)
	authed.PUT("/posts/:id/status", s.setPostStatus)
	authed.POST("/posts/:id/like", s.react(true))
	authed.POST("/posts/:id/dislike", s.react(false))

	open.GET("/posts/:id/comments", s.listComments)
	authed.POST("/posts/:id/comments", s.createComment)
	authed.PUT("/comments/:id", s.updateComment)
	authed.DELETE("/comments/:id", s.deleteComment)

	open.GET("/categories", s.listCategories)
	authed.POST("/categories", s.createCategory)
	authed.PUT("/categories/:id", s.updateCategory)
	authed.DELETE("/categories/:id", s.deleteCategory)

	open.GET("/contents", s.listContents)
	open.GET("/contents/:id", s.getContent)
	authed.POST("/contents", s.createContent)
	authed.PUT("/contents/:id", s.updateContent)
	authed.PUT("/contents/:id/status", s.setContentStatus)
	authed.DELETE("/contents/:id", s.deleteContent)

	authed.GET("/moderation/contents", s.moderationQueue)
	authed.DELETE("/moderation/categories/:id", s.moderateDeleteCategory)

	authed.GET("/subscriptions", s.listSubscriptions)
	authed.POST("/subscriptions", s.subscribe)
	authed.DELETE("/subscriptions/:id", s.unsubscribe)

	authed.GET("/wishlist", s.listWishlist)
	authed.POST("/wishlist", s.addToWishlist)
	authed.DELETE("/wishlist/:id", s.removeFromWishlist)

	authed.GET("/shares/sent", s.listSentShares)
	authed.GET("/shares/received", s.listReceivedShares)
	authed.POST("/shares", s.sharePost)
	authed.DELETE("/shares/:id", s.deleteShare)

	return r
}
