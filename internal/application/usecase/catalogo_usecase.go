package usecase

import (
	"context"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/aportante"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

// CatalogoUseCase catálogo DIVIPOLA de departamentos y municipios.
type CatalogoUseCase struct {
	repo repository.DivipolaRepository
}

// NewCatalogoUseCase construye el caso de uso.
func NewCatalogoUseCase(repo repository.DivipolaRepository) *CatalogoUseCase {
	return &CatalogoUseCase{repo: repo}
}

// Departamentos catálogo completo de departamentos.
func (uc *CatalogoUseCase) Departamentos() []dto.DepartamentoItem {
	out := make([]dto.DepartamentoItem, 0, len(aportante.Departamentos))
	for _, d := range aportante.Departamentos {
		out = append(out, dto.DepartamentoItem{Codigo: d.Codigo, Nombre: d.Nombre})
	}
	return out
}

// Municipios municipios de un departamento. Acepta el código o el nombre del departamento.
func (uc *CatalogoUseCase) Municipios(ctx context.Context, departamento string) ([]dto.MunicipioItem, error) {
	d, ok := aportante.DepartamentoPorCodigo(departamento)
	if !ok {
		d, ok = aportante.NormalizeDepartment(departamento)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByDepartamento(ctx, d.Codigo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MunicipioItem, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MunicipioItem{Codigo: m.Codigo, Nombre: m.Nombre, Tipo: m.Tipo})
	}
	return out, nil
}
