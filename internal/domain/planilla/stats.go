package planilla

import (
	"github.com/shopspring/decimal"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// SinTipo valor de la moda cuando no hay planillas.
const SinTipo = "N/A"

// Stats resumen de un conjunto (ya filtrado) de planillas.
type Stats struct {
	TotalPlanillas    int
	TotalEmpleados    int
	TotalValor        decimal.Decimal
	PromedioEmpleados int
	TipoMasFrecuente  string
	DescripcionTipo   string
}

// ComputeStats reduce la lista a sus totales. La moda del tipo de planilla, en
// caso de empate, es el tipo que apareció primero.
func ComputeStats(planillas []entity.Planilla) Stats {
	s := Stats{TotalValor: decimal.Zero, TipoMasFrecuente: SinTipo}
	if len(planillas) == 0 {
		return s
	}
	for _, p := range planillas {
		s.TotalPlanillas++
		s.TotalEmpleados += p.TotalEmpleados
		s.TotalValor = s.TotalValor.Add(p.ValorTotal)
	}
	s.PromedioEmpleados = int(decimal.NewFromInt(int64(s.TotalEmpleados)).
		Div(decimal.NewFromInt(int64(s.TotalPlanillas))).
		Round(0).IntPart())
	s.TipoMasFrecuente = ModeTipo(planillas)
	s.DescripcionTipo, _ = pila.DescripcionTipo(s.TipoMasFrecuente)
	return s
}

// ModeTipo tipo de planilla más frecuente; los empates los gana el primero en aparecer.
func ModeTipo(planillas []entity.Planilla) string {
	if len(planillas) == 0 {
		return SinTipo
	}
	counts := map[string]int{}
	var order []string
	for _, p := range planillas {
		if _, seen := counts[p.TipoPlanilla]; !seen {
			order = append(order, p.TipoPlanilla)
		}
		counts[p.TipoPlanilla]++
	}
	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

// TiposPresentes tipos distintos en orden de aparición.
func TiposPresentes(planillas []entity.Planilla) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, p := range planillas {
		if _, ok := seen[p.TipoPlanilla]; ok {
			continue
		}
		seen[p.TipoPlanilla] = struct{}{}
		out = append(out, p.TipoPlanilla)
	}
	return out
}
