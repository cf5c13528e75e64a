package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
)

func TestHandleError_Mapping(t *testing.T) {
	env := newTestEnv(t, nil)
	app := env.server.App()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", fmt.Errorf("%w: secret is empty", common.ErrorValidation), http.StatusBadRequest,
			`{"success":false,"message":"validation error: secret is empty"}`},
		{"credentials", &common.AuthFailure{Reason: common.ReasonBadPassword}, http.StatusUnauthorized,
			`{"success":false,"message":"Invalid credentials"}`},
		{"unauthenticated", common.ErrorUnauthenticated, http.StatusUnauthorized,
			`{"success":false,"message":"Unauthenticated"}`},
		{"exists", common.ErrorAlreadyExists, http.StatusConflict,
			`{"success":false,"message":"User already exists"}`},
		{"not found", common.ErrorNotFound, http.StatusNotFound,
			`{"success":false,"message":"Not found"}`},
		{"upstream", fmt.Errorf("get user: %w", common.ErrorUpstream), http.StatusServiceUnavailable,
			`{"success":false,"message":"Service temporarily unavailable"}`},
		{"fiber", fiber.NewError(http.StatusTeapot, "short and stout"), http.StatusTeapot,
			`{"success":false,"message":"short and stout"}`},
		{"internal", errors.New("pq: relation \"users\" does not exist"), http.StatusInternalServerError,
			`{"success":false,"message":"Internal server error"}`},
	}

	for i, tt := range tests {
		err := tt.err
		app.Get(fmt.Sprintf("/boom/%d", i), func(fiber.Ctx) error { return err })
	}
	app.Get("/boom/panic", func(fiber.Ctx) error { panic("kaboom") })

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.do(t, http.MethodGet, fmt.Sprintf("/boom/%d", i), "", nil)
			assert.Equal(t, tt.wantStatus, r.status)
			assert.JSONEq(t, tt.wantBody, string(r.body))
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "5", r.header.Get("Retry-After"))
			} else {
				assert.Empty(t, r.header.Get("Retry-After"))
			}
		})
	}

	t.Run("panic", func(t *testing.T) {
		r := env.do(t, http.MethodGet, "/boom/panic", "", nil)
		assert.Equal(t, http.StatusInternalServerError, r.status)
		assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, string(r.body))
	})
}
