package planilla

import (
	"strings"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// TodosLosTipos valor del filtro de tipo que no filtra.
const TodosLosTipos = "todas"

// Filter criterios de la vista de planillas.
type Filter struct {
	Tipo     string // código de tipo o "todas"
	Busqueda string // se busca en tipo, estado y archivo sin distinguir mayúsculas
}

// Apply devuelve una lista nueva con las planillas que cumplen el filtro.
func (f Filter) Apply(planillas []entity.Planilla) []entity.Planilla {
	tipo := strings.TrimSpace(f.Tipo)
	filtraTipo := tipo != "" && !strings.EqualFold(tipo, TodosLosTipos)
	term := strings.ToLower(strings.TrimSpace(f.Busqueda))

	out := make([]entity.Planilla, 0, len(planillas))
	for _, p := range planillas {
		if filtraTipo && !strings.EqualFold(p.TipoPlanilla, tipo) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.TipoPlanilla), term) &&
			!strings.Contains(strings.ToLower(p.Estado), term) &&
			!strings.Contains(strings.ToLower(p.Archivo), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}
