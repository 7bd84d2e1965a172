package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/esap/parafiscales-api/internal/domain"
)

// Códigos SQLSTATE que el dominio distingue.
const (
	sqlUniqueViolation     = "23505"
	sqlForeignKeyViolation = "23503"
	sqlCheckViolation      = "23514"
	sqlQueryCanceled       = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == sqlUniqueViolation }

// wrapErr traduce errores de PostgreSQL a errores de dominio; el resto se envuelve
// con op para dar contexto.
func wrapErr(op string, err error) error {
	switch pgCode(err) {
	case sqlUniqueViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case sqlForeignKeyViolation, sqlCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case sqlQueryCanceled:
		return fmt.Errorf("%s: %w", op, context.Canceled)
	}
	return fmt.Errorf("%s: %w", op, err)
}
