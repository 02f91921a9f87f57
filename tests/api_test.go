package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "tradepost/pkg/errors"
	"tradepost/pkg/response"
)

func TestHealthCheck(t *testing.T) {
	// Setup
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	healthHandler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	// Assertions
	if assert.NoError(t, healthHandler(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ok")
	}
}

func TestErrorEnvelope(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFound("Product", nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.Conflict("product already sold"), http.StatusConflict, "CONFLICT"},
		{"forbidden", apperrors.Forbidden("nope", nil), http.StatusForbidden, "FORBIDDEN"},
		{"invalid operation", apperrors.InvalidOperation("cannot buy own product"), http.StatusBadRequest, "INVALID_OPERATION"},
		{"unauthorized", apperrors.Unauthorized("invalid credentials", nil), http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			assert.NoError(t, response.Error(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}
