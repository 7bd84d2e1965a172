package repository

import (
	"context"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// DivipolaRepository catálogo de municipios.
type DivipolaRepository interface {
	// Upsert inserta o actualiza por código y devuelve cuántos municipios procesó.
	Upsert(ctx context.Context, municipios []entity.Municipio) (int, error)
	ListByDepartamento(ctx context.Context, departamentoCodigo string) ([]entity.Municipio, error)
}
