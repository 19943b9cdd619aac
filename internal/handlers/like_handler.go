package handlers

import (
	"net/http"

	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	postService services.PostService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService services.PostService) *LikeHandler {
	return &LikeHandler{postService: postService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/likes", h.GetLikesForPost)
}

// ToggleLike likes the post when no like exists, unlikes it otherwise
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID, err := paramUint(c, "post_id")
	if err != nil {
		return err
	}

	liked, err := h.postService.ToggleLike(currentUserID, postID)
	if err != nil {
		return domainError(err)
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}, "message": message})
}

// GetLikesForPost retrieves all likes for a specific post
func (h *LikeHandler) GetLikesForPost(c echo.Context) error {
	postID, err := paramUint(c, "post_id")
	if err != nil {
		return err
	}
	likes, err := h.postService.LikesForPost(postID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes": likes, "likes_count": len(likes)})
}
