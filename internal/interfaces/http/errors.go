package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// statusClientClosed el cliente abandonó la petición antes de la respuesta.
const statusClientClosed = 499

// upstreamDetailer error del motor que trae un mensaje para el usuario.
type upstreamDetailer interface {
	UpstreamDetail() string
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // vacío: se usa err.Error()
}

var errorMappings = []errorMapping{
	{domain.ErrSessionExpired, fiber.StatusGone, "SESSION_EXPIRED", ""},
	{domain.ErrSessionNotFound, fiber.StatusNotFound, "SESSION_NOT_FOUND", ""},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrNoData, fiber.StatusNotFound, "NO_DATA", ""},
	{domain.ErrEmptyFile, fiber.StatusBadRequest, "EMPTY_FILE", ""},
	{domain.ErrUnsupportedFile, fiber.StatusBadRequest, "UNSUPPORTED_FILE", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", ""},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "cuenta inactiva o suspendida"},
	{domain.ErrUpstreamUnavailable, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "el motor de procesamiento no responde, intente más tarde"},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout, "TIMEOUT", "la operación excedió el tiempo máximo"},
}

// respondError traduce un error de aplicación a la respuesta HTTP. Los errores no
// reconocidos se registran y se responden como 500 sin detalles internos.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if errors.Is(err, domain.ErrUpstreamRejected) {
		msg := err.Error()
		var d upstreamDetailer
		if errors.As(err, &d) && d.UpstreamDetail() != "" {
			msg = d.UpstreamDetail()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UPSTREAM_REJECTED", Message: msg})
	}
	if errors.Is(err, context.Canceled) {
		return c.SendStatus(statusClientClosed)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
