package repository

import (
	"context"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// PlanillaRepository lectura de las planillas que deja el motor de procesamiento PILA.
type PlanillaRepository interface {
	ListByNIT(ctx context.Context, nit string) ([]entity.PlanillaRaw, error)
	CountByNIT(ctx context.Context, nit string) (int, error)
	// NITsWithPlanillas devuelve el subconjunto de nits que tiene al menos una planilla.
	NITsWithPlanillas(ctx context.Context, nits []string) (map[string]bool, error)
}
