package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
	"github.com/esap/parafiscales-api/pkg/logger"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func dec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func newPlanillaUC(raws []entity.PlanillaRaw) (*PlanillaUseCase, *stubPDF) {
	repo := &memPlanillas{byNIT: map[string][]entity.PlanillaRaw{"900123456": raws}}
	pdf := &stubPDF{}
	uc := NewPlanillaUseCase(repo, stubExporter{}, pdf, planilla.YearRange{Min: 2020, Max: 2024}, logger.Nop())
	uc.now = func() time.Time { return time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC) }
	return uc, pdf
}

var rawPlanillas = []entity.PlanillaRaw{
	{
		NIT: "900123456", TipoPlanilla: strp("E"), EntidadAportante: strp("ACME SAS"),
		PeriodoPago: strp("2024-03"), TotalEmpleados: intp(10),
		AporteObligatorio: dec("1000"), MoraAportes: dec("50"), ArchivoOrigen: strp("marzo.txt"),
	},
	{
		NIT: "900123456", TipoPlanilla: strp("N"), PeriodoPago: strp("2024-03"),
		TotalEmpleados: intp(2), AporteObligatorio: dec("200"), ArchivoOrigen: strp("correccion.txt"),
	},
	{
		NIT: "900123456", TipoPlanilla: strp("E"), PeriodoPago: strp("2018-13"),
		TotalEmpleados: intp(9), AporteObligatorio: dec("300"), CodigoOperador: intp(88),
	},
}

func TestPlanillaList(t *testing.T) {
	uc, _ := newPlanillaUC(rawPlanillas)

	out, err := uc.List(context.Background(), "900.123.456", dto.PlanillaQuery{})
	require.NoError(t, err)
	assert.False(t, out.SinDatos)
	assert.Equal(t, []string{"E", "N"}, out.TiposDisponibles)
	require.Len(t, out.Planillas, 3)
	assert.Equal(t, "1050", out.Planillas[0].ValorTotal.String())
	assert.Equal(t, "Marzo", out.Planillas[0].MesNombre)

	// 2018-13 se lleva a 2020, enero.
	assert.Equal(t, 2020, out.Planillas[2].Anio)
	assert.Equal(t, 1, out.Planillas[2].Mes)
	assert.Equal(t, 88, out.Planillas[2].CodigoOperador)

	assert.Equal(t, 3, out.Stats.TotalPlanillas)
	assert.Equal(t, 21, out.Stats.TotalEmpleados)
	assert.Equal(t, 7, out.Stats.PromedioEmpleados)
	assert.Equal(t, "1550", out.Stats.TotalValor.String())
	assert.Equal(t, "E", out.Stats.TipoMasFrecuente)
}

func TestPlanillaList_Filtro(t *testing.T) {
	uc, _ := newPlanillaUC(rawPlanillas)

	out, err := uc.List(context.Background(), "900123456", dto.PlanillaQuery{Tipo: "N"})
	require.NoError(t, err)
	require.Len(t, out.Planillas, 1)
	assert.Equal(t, []string{"E", "N"}, out.TiposDisponibles, "los tipos disponibles no dependen del filtro")

	out, err = uc.List(context.Background(), "900123456", dto.PlanillaQuery{Busqueda: "MARZO"})
	require.NoError(t, err)
	require.Len(t, out.Planillas, 1)
	assert.Equal(t, "marzo.txt", out.Planillas[0].Archivo)
}

func TestPlanillaList_SinDatos(t *testing.T) {
	uc, _ := newPlanillaUC(nil)

	out, err := uc.List(context.Background(), "800197268", dto.PlanillaQuery{})
	require.NoError(t, err)
	assert.True(t, out.SinDatos)
	assert.NotNil(t, out.Planillas)
	assert.Empty(t, out.Planillas)
	assert.Equal(t, planilla.SinTipo, out.Stats.TipoMasFrecuente)
}

func TestPlanillaList_NITInvalido(t *testing.T) {
	uc, _ := newPlanillaUC(nil)
	_, err := uc.List(context.Background(), "12a", dto.PlanillaQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanillaMatriz(t *testing.T) {
	uc, _ := newPlanillaUC(rawPlanillas)

	out, err := uc.Matriz(context.Background(), "900123456", dto.PlanillaQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2020, out.AnioDesde)
	assert.Equal(t, 2024, out.AnioHasta)
	require.Len(t, out.Filas, 5)
	assert.Equal(t, 2024, out.Filas[0].Anio)
	assert.Len(t, out.Filas[0].Meses[2], 2)
	assert.NotNil(t, out.Filas[0].Meses[0])
	assert.Empty(t, out.Filas[0].Meses[0])
	assert.Len(t, out.Filas[4].Meses[0], 1)

	// 5 años x 12 meses menos los dos períodos con datos.
	assert.Len(t, out.PeriodosVacios, 58)
}

func TestPlanillaDisponibles(t *testing.T) {
	uc, _ := newPlanillaUC(rawPlanillas)

	out, err := uc.Disponibles(context.Background(), "900123456")
	require.NoError(t, err)
	assert.True(t, out.TienePlanillas)
	assert.Equal(t, 3, out.TotalPlanillas)

	out, err = uc.Disponibles(context.Background(), "800197268")
	require.NoError(t, err)
	assert.False(t, out.TienePlanillas)
}

func TestPlanillaCSV(t *testing.T) {
	uc, _ := newPlanillaUC(rawPlanillas)

	d, err := uc.CSV(context.Background(), "900123456", dto.PlanillaQuery{Tipo: "E"})
	require.NoError(t, err)
	assert.Equal(t, "planillas_900123456_2024-07-15.csv", d.FileName)
	assert.Equal(t, "xx", string(d.Data))

	_, err = uc.CSV(context.Background(), "900123456", dto.PlanillaQuery{Tipo: "M"})
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestPlanillaReportPDF(t *testing.T) {
	uc, pdf := newPlanillaUC(rawPlanillas)

	d, err := uc.ReportPDF(context.Background(), "900123456", dto.PlanillaQuery{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", d.ContentType)
	require.NotNil(t, pdf.last)
	assert.Equal(t, "ACME SAS", pdf.last.Entidad)
	assert.Len(t, pdf.last.Planillas, 3)

	uc, _ = newPlanillaUC(nil)
	_, err = uc.ReportPDF(context.Background(), "900123456", dto.PlanillaQuery{})
	assert.ErrorIs(t, err, domain.ErrNoData)
}
