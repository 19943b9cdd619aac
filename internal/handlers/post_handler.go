package handlers

import (
	"net/http"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.DELETE("/users/:id/posts", h.DeleteUserPosts)
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(currentUserID, req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// ListPosts returns paginated posts, optionally filtered by a search query
func (h *PostHandler) ListPosts(c echo.Context) error {
	limit, offset := queryPagination(c, 20)
	posts, err := h.postService.ListPosts(c.QueryParam("query"), limit, offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// GetPost returns a single post with engagement counts
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postService.GetPost(id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost updates a post owned by the current user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(currentUserID, id, req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post (author or admin)
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if err := h.postService.DeletePost(currentUserID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts returns paginated posts by a specific user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	limit, offset := queryPagination(c, 20)
	posts, err := h.postService.GetUserPosts(id, limit, offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// DeleteUserPosts deletes all posts by a user (self or admin)
func (h *PostHandler) DeleteUserPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.postService.DeleteUserPosts(currentUserID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted_count": deleted}})
}
