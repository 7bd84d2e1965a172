package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

type detailErr struct{ detail string }

func (e detailErr) Error() string          { return "motor rechazó" }
func (e detailErr) Unwrap() error          { return domain.ErrUpstreamRejected }
func (e detailErr) UpstreamDetail() string { return e.detail }

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"expirada", fmt.Errorf("sesión x: %w", domain.ErrSessionExpired), 410, "SESSION_EXPIRED", ""},
		{"sesion inexistente", domain.ErrSessionNotFound, 404, "SESSION_NOT_FOUND", ""},
		{"sin datos", domain.ErrNoData, 404, "NO_DATA", ""},
		{"archivo vacío", domain.ErrEmptyFile, 400, "EMPTY_FILE", ""},
		{"validación", fmt.Errorf("%w: nit", domain.ErrInvalidInput), 400, "VALIDATION", ""},
		{"credenciales", domain.ErrUserNotFound, 401, "UNAUTHORIZED", "credenciales inválidas"},
		{"email", domain.ErrEmailAlreadyExists, 409, "EMAIL_EXISTS", ""},
		{"motor caído", domain.ErrUpstreamUnavailable, 502, "UPSTREAM_UNAVAILABLE", ""},
		{"motor rechaza", detailErr{detail: "El LOG no tiene registros"}, 422, "UPSTREAM_REJECTED", "El LOG no tiene registros"},
		{"timeout", fmt.Errorf("motor: %w", context.DeadlineExceeded), 504, "TIMEOUT", ""},
		{"interno", errors.New("boom"), 500, "INTERNAL", "error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, logger.Nop(), tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, body.Message)
			}
		})
	}
}
