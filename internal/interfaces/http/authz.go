package http

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/dto"
)

//go:embed authz_model.conf
var authzModel string

//go:embed authz_policy.csv
var authzPolicy string

// Authorizer decide por rol, ruta y método con una política casbin.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer carga el modelo y la política embebidos.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("authz: modelo: %w", err)
	}
	e, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(authzPolicy))
	if err != nil {
		return nil, fmt.Errorf("authz: política: %w", err)
	}
	return &Authorizer{enforcer: e}, nil
}

// Allowed indica si role puede ejecutar method sobre path.
func (a *Authorizer) Allowed(role, path, method string) (bool, error) {
	return a.enforcer.Enforce(role, path, method)
}

// Authorize middleware de autorización. Debe ir después de AuthMiddleware.
func Authorize(a *Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		ok, err := a.Allowed(role, c.Path(), c.Method())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error de autorización"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol " + role + " no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}
