package handlers

import (
	"net/http"
	"strconv"

	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/trending", h.GetTrending)
}

// GetFeed returns the ranked, paginated feed for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	limit, offset := queryPagination(c, 20)

	posts, err := h.feedService.GetFeed(currentUserID, limit, offset)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta": echo.Map{
			"limit":  limit,
			"offset": offset,
			"count":  len(posts),
		},
	})
}

// GetTrending returns the top recent posts by engagement score
func (h *FeedHandler) GetTrending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	posts, err := h.feedService.GetTrending(limit)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
	})
}
