package repository

import (
	"context"
	"time"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// RowFilter criterios de búsqueda de filas dentro de una sesión. Los campos vacíos no filtran.
type RowFilter struct {
	NIT          string // igualdad exacta
	NITContains  string // búsqueda parcial
	Departamento string
	Municipio    string
}

// SessionRepository define el puerto de persistencia de las sesiones de carga de aportantes.
type SessionRepository interface {
	// Create guarda la sesión y todas sus filas de forma atómica.
	Create(ctx context.Context, session *entity.Session, rows []entity.AportanteRow) error
	// GetByID devuelve nil, nil si la sesión no existe.
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired elimina las sesiones vencidas en now y devuelve cuántas borró.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	ListRows(ctx context.Context, sessionID string, filter RowFilter) ([]entity.AportanteRow, error)
	DistinctNITs(ctx context.Context, sessionID string, filter RowFilter) ([]string, error)
	DistinctDepartamentos(ctx context.Context, sessionID string) ([]string, error)
	DistinctMunicipios(ctx context.Context, sessionID, departamento string) ([]string, error)
}
