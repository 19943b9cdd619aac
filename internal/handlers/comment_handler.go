package handlers

import (
	"net/http"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postService services.PostService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postService services.PostService) *CommentHandler {
	return &CommentHandler{postService: postService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID, err := paramUint(c, "post_id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postService.CreateComment(currentUserID, postID, req.Content)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := paramUint(c, "post_id")
	if err != nil {
		return err
	}
	comments, err := h.postService.CommentsForPost(postID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment updates an existing comment owned by the current user
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postService.UpdateComment(currentUserID, id, req.Content)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment owned by the current user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.postService.DeleteComment(currentUserID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
