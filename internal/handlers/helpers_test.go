package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrAuthenticationRequired, http.StatusUnauthorized},
		{services.ErrPermissionDenied, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrSelfFollow, http.StatusBadRequest},
		{services.ErrAlreadyFollowing, http.StatusConflict},
		{services.ErrNotFollowing, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		httpErr, ok := domainError(tc.err).(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, tc.code, httpErr.Code, "error %v", tc.err)
	}
}

func newQueryContext(t *testing.T, params url.Values) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestQueryPaginationClampsLimit(t *testing.T) {
	c := newQueryContext(t, url.Values{"limit": {"500"}, "offset": {"-3"}})
	limit, offset := queryPagination(c, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	c = newQueryContext(t, url.Values{"limit": {"10"}, "offset": {"30"}})
	limit, offset = queryPagination(c, 20)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 30, offset)

	c = newQueryContext(t, url.Values{})
	limit, offset = queryPagination(c, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)
}
