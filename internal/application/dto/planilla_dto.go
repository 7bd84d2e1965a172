package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanillaQuery filtros de la vista de planillas (query string).
type PlanillaQuery struct {
	Tipo     string `query:"tipo"`
	Busqueda string `query:"q"`
}

// PlanillaResponse planilla normalizada.
type PlanillaResponse struct {
	Anio            int             `json:"anio"`
	Mes             int             `json:"mes"`
	MesNombre       string          `json:"mes_nombre"`
	TipoPlanilla    string          `json:"tipo_planilla"`
	DescripcionTipo string          `json:"descripcion_tipo"`
	NombreAportante string          `json:"nombre_aportante"`
	PeriodoPago     string          `json:"periodo_pago"`
	FechaPago       *time.Time      `json:"fecha_pago"`
	TotalEmpleados  int             `json:"total_empleados"`
	TotalAfiliados  int             `json:"total_afiliados"`
	IBC             decimal.Decimal `json:"ibc"`
	Capital         decimal.Decimal `json:"capital"`
	Interes         decimal.Decimal `json:"interes"`
	ValorTotal      decimal.Decimal `json:"valor_total"`
	CodigoOperador  int             `json:"codigo_operador"`
	NombreOperador  string          `json:"nombre_operador"`
	Archivo         string          `json:"archivo"`
	Estado          string          `json:"estado"`
}

// PlanillaStats estadísticas de las planillas filtradas.
type PlanillaStats struct {
	TotalPlanillas    int             `json:"total_planillas"`
	TotalEmpleados    int             `json:"total_empleados"`
	TotalValor        decimal.Decimal `json:"total_valor"`
	PromedioEmpleados int             `json:"promedio_empleados"`
	TipoMasFrecuente  string          `json:"tipo_mas_frecuente"`
	DescripcionTipo   string          `json:"descripcion_tipo,omitempty"`
}

// PlanillasResponse lista filtrada de planillas de un NIT.
type PlanillasResponse struct {
	NIT              string             `json:"nit"`
	SinDatos         bool               `json:"sin_datos"`
	TiposDisponibles []string           `json:"tipos_disponibles"`
	Planillas        []PlanillaResponse `json:"planillas"`
	Stats            PlanillaStats      `json:"estadisticas"`
}

// MatrizFila un año de la grilla; Meses[0] es enero. Las celdas vacías son [].
type MatrizFila struct {
	Anio  int                    `json:"anio"`
	Meses [12][]PlanillaResponse `json:"meses"`
}

// PeriodoVacio período sin planillas.
type PeriodoVacio struct {
	Anio int `json:"anio"`
	Mes  int `json:"mes"`
}

// MatrizResponse grilla año/mes de las planillas filtradas.
type MatrizResponse struct {
	NIT              string         `json:"nit"`
	SinDatos         bool           `json:"sin_datos"`
	AnioDesde        int            `json:"anio_desde"`
	AnioHasta        int            `json:"anio_hasta"`
	TiposDisponibles []string       `json:"tipos_disponibles"`
	Filas            []MatrizFila   `json:"filas"`
	PeriodosVacios   []PeriodoVacio `json:"periodos_vacios"`
	Stats            PlanillaStats  `json:"estadisticas"`
}

// DisponiblesResponse si el NIT tiene planillas cargadas.
type DisponiblesResponse struct {
	NIT            string `json:"nit"`
	TienePlanillas bool   `json:"tiene_planillas"`
	TotalPlanillas int    `json:"total_planillas"`
}
