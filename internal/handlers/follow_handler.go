package handlers

import (
	"net/http"

	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followService services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.followService.Follow(currentUserID, targetID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.followService.Unfollow(currentUserID, targetID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowers lists the accounts following a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	users, err := h.followService.Followers(id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

// GetFollowing lists the accounts a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	users, err := h.followService.Following(id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}
