package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/infrastructure/authapi"
)

func TestHTTPErrorHandler(t *testing.T) {
	proxyErr := echo.NewHTTPError(http.StatusBadGateway, "remote unreachable")
	proxyErr.Internal = fmt.Errorf("%w: %w", domain.ErrRefreshFailed, errors.New("HTTP 401"))

	tests := []struct {
		name     string
		err      error
		code     int
		redirect string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, domain.PathLogin},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, domain.PathUnauthorized},
		{"wrapped refresh failure", fmt.Errorf("proxy: %w", domain.ErrRefreshFailed), http.StatusUnauthorized, domain.PathLogin},
		{"refresh failure inside proxy error", proxyErr, http.StatusUnauthorized, domain.PathLogin},
		{"invalid input", fmt.Errorf("%w: email is required", domain.ErrInvalidInput), http.StatusBadRequest, ""},
		{"backend error", &authapi.HTTPError{StatusCode: http.StatusConflict, Message: "User already exists"}, http.StatusConflict, ""},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound, ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Redirect != tt.redirect {
				t.Fatalf("expected redirect %q, got %q", tt.redirect, resp.Redirect)
			}
			if resp.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestNavigator_Take(t *testing.T) {
	n := NewNavigator(zerolog.Nop())
	n.Redirect(t.Context(), domain.PathLogin)

	if got := n.Take(); got != domain.PathLogin {
		t.Fatalf("expected /login, got %q", got)
	}
	if got := n.Take(); got != "" {
		t.Fatalf("expected pending redirect cleared, got %q", got)
	}
}
