package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated principal's ID, or 0 for
// the anonymous principal.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// domainError maps a service-layer error onto an HTTP error with a stable,
// distinct message per failure kind.
func domainError(err error) error {
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, services.ErrAuthenticationRequired.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, services.ErrPermissionDenied.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, services.ErrNotFound.Error())
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, services.ErrSelfFollow.Error())
	case errors.Is(err, services.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, services.ErrAlreadyFollowing.Error())
	case errors.Is(err, services.ErrNotFollowing):
		return echo.NewHTTPError(http.StatusNotFound, services.ErrNotFollowing.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func paramUint(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// queryPagination reads limit/offset query params, clamping limit to [1, 50].
func queryPagination(c echo.Context, defaultLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
