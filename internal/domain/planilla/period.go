// Package planilla normaliza planillas PILA y construye la grilla año/mes y las
// estadísticas que se muestran por aportante.
package planilla

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// EstadoProcesado estado de toda planilla que ya pasó por el motor.
const EstadoProcesado = "Procesado"

// YearRange rango de años (inclusive) de la grilla.
type YearRange struct {
	Min int
	Max int
}

// DefaultYears rango histórico de la PILA.
var DefaultYears = YearRange{Min: 1992, Max: 2025}

// Years años del rango, del más reciente al más antiguo.
func (r YearRange) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	out := make([]int, 0, r.Max-r.Min+1)
	for y := r.Max; y >= r.Min; y-- {
		out = append(out, y)
	}
	return out
}

// Contains indica si el año está dentro del rango.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Clamp lleva el año al límite más cercano del rango.
func (r YearRange) Clamp(year int) int {
	if year < r.Min {
		return r.Min
	}
	if year > r.Max {
		return r.Max
	}
	return year
}

// PeriodSource de dónde salió el período de una planilla.
type PeriodSource string

const (
	FromPeriodoPago PeriodSource = "periodo_pago"
	FromFechaPago   PeriodSource = "fecha_pago"
	FromNow         PeriodSource = "fecha_actual"
)

// Adjustments correcciones aplicadas al normalizar, para registrarlas en el log.
type Adjustments struct {
	Source         PeriodSource
	YearClamped    bool
	MonthDefaulted bool
	TypeDefaulted  bool
	UnknownType    string
}

// Any indica si hubo alguna corrección distinta del origen del período.
func (a Adjustments) Any() bool {
	return a.YearClamped || a.MonthDefaulted || a.TypeDefaulted
}

// ParsePeriod interpreta periodo_pago en los formatos "2025-05", "2025-5",
// "202505" y "2025" (mes 1). ok=false si no se reconoce.
func ParsePeriod(s string) (year, month int, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, 0, false
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return 0, 0, false
		}
		y, errY := strconv.Atoi(strings.TrimSpace(parts[0]))
		m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errY != nil || errM != nil {
			return 0, 0, false
		}
		year, month = y, m
	case len(s) >= 6:
		y, errY := strconv.Atoi(s[:4])
		m, errM := strconv.Atoi(s[4:])
		if errY != nil || errM != nil {
			return 0, 0, false
		}
		year, month = y, m
	case len(s) == 4:
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		year, month = y, 1
	default:
		return 0, 0, false
	}
	if year == 0 || month == 0 {
		return 0, 0, false
	}
	return year, month, true
}

// Normalize convierte la planilla cruda del motor en una Planilla válida: el
// período sale de periodo_pago, luego de fecha_pago y por último de now; el año
// se lleva al rango y el mes fuera de 1-12 pasa a 1. Nunca falla.
func Normalize(raw entity.PlanillaRaw, entidad string, years YearRange, now time.Time) (entity.Planilla, Adjustments) {
	var adj Adjustments

	periodo := deref(raw.PeriodoPago)
	year, month, ok := ParsePeriod(periodo)
	switch {
	case ok:
		adj.Source = FromPeriodoPago
	case raw.FechaPago != nil && !raw.FechaPago.IsZero():
		year, month = raw.FechaPago.Year(), int(raw.FechaPago.Month())
		adj.Source = FromFechaPago
	default:
		year, month = now.Year(), int(now.Month())
		adj.Source = FromNow
	}
	if !years.Contains(year) {
		year = years.Clamp(year)
		adj.YearClamped = true
	}
	if month < 1 || month > 12 {
		month = 1
		adj.MonthDefaulted = true
	}

	tipo := strings.ToUpper(strings.TrimSpace(deref(raw.TipoPlanilla)))
	if tipo == "" {
		tipo = pila.TipoPorDefecto
	} else if _, valid := pila.DescripcionTipo(tipo); !valid {
		adj.UnknownType = tipo
		adj.TypeDefaulted = true
		tipo = pila.TipoPorDefecto
	}

	codigo := pila.OperadorPorDefecto
	if raw.CodigoOperador != nil && *raw.CodigoOperador > 0 {
		codigo = *raw.CodigoOperador
	}
	nombreOp, known := pila.NombreOperador(codigo)
	if !known {
		nombreOp = fmt.Sprintf("Operador %d", codigo)
	}

	nombre := strings.TrimSpace(deref(raw.EntidadAportante))
	if nombre == "" {
		nombre = entidad
	}

	p := entity.NewPlanilla(entity.PlanillaParams{
		Anio:            year,
		Mes:             month,
		TipoPlanilla:    tipo,
		NombreAportante: nombre,
		PeriodoPago:     periodo,
		FechaPago:       raw.FechaPago,
		TotalEmpleados:  derefInt(raw.TotalEmpleados),
		TotalAfiliados:  derefInt(raw.TotalAfiliados),
		IBC:             orZero(raw.IBC),
		Capital:         orZero(raw.AporteObligatorio),
		Interes:         orZero(raw.MoraAportes),
		CodigoOperador:  codigo,
		NombreOperador:  nombreOp,
		Archivo:         deref(raw.ArchivoOrigen),
		Estado:          EstadoProcesado,
	})
	return p, adj
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
