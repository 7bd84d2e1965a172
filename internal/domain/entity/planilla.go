package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanillaRaw planilla tal como la persiste el motor de procesamiento PILA.
// Todos los campos pueden venir vacíos.
type PlanillaRaw struct {
	NIT               string
	TipoPlanilla      *string
	EntidadAportante  *string
	PeriodoPago       *string
	FechaPago         *time.Time
	TotalEmpleados    *int
	TotalAfiliados    *int
	IBC               decimal.NullDecimal
	AporteObligatorio decimal.NullDecimal
	MoraAportes       decimal.NullDecimal
	TotalAportes      decimal.NullDecimal
	CodigoOperador    *int
	ArchivoOrigen     *string
}

// Planilla presentación de aportes de un aportante para un período (año, mes).
// Se construye con NewPlanilla y no se modifica después.
type Planilla struct {
	Anio            int
	Mes             int // 1-12
	TipoPlanilla    string
	NombreAportante string
	PeriodoPago     string
	FechaPago       *time.Time
	TotalEmpleados  int
	TotalAfiliados  int
	IBC             decimal.Decimal
	Capital         decimal.Decimal
	Interes         decimal.Decimal
	ValorTotal      decimal.Decimal // siempre Capital + Interes
	CodigoOperador  int
	NombreOperador  string
	Archivo         string
	Estado          string
}

// PlanillaParams datos de entrada de NewPlanilla.
type PlanillaParams struct {
	Anio            int
	Mes             int
	TipoPlanilla    string
	NombreAportante string
	PeriodoPago     string
	FechaPago       *time.Time
	TotalEmpleados  int
	TotalAfiliados  int
	IBC             decimal.Decimal
	Capital         decimal.Decimal
	Interes         decimal.Decimal
	CodigoOperador  int
	NombreOperador  string
	Archivo         string
	Estado          string
}

// NewPlanilla construye la planilla calculando ValorTotal = Capital + Interes.
// Los conteos negativos se llevan a cero.
func NewPlanilla(p PlanillaParams) Planilla {
	if p.TotalEmpleados < 0 {
		p.TotalEmpleados = 0
	}
	if p.TotalAfiliados < 0 {
		p.TotalAfiliados = 0
	}
	return Planilla{
		Anio:            p.Anio,
		Mes:             p.Mes,
		TipoPlanilla:    p.TipoPlanilla,
		NombreAportante: p.NombreAportante,
		PeriodoPago:     p.PeriodoPago,
		FechaPago:       p.FechaPago,
		TotalEmpleados:  p.TotalEmpleados,
		TotalAfiliados:  p.TotalAfiliados,
		IBC:             p.IBC,
		Capital:         p.Capital,
		Interes:         p.Interes,
		ValorTotal:      p.Capital.Add(p.Interes),
		CodigoOperador:  p.CodigoOperador,
		NombreOperador:  p.NombreOperador,
		Archivo:         p.Archivo,
		Estado:          p.Estado,
	}
}
