// Package pdf genera el reporte de planillas PILA de un aportante.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de planillas  │  NIT-DV + fecha            │
//	│  APORTANTE: entidad + filtros aplicados                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: planillas / empleados / promedio / tipo / total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Año | Mes | Tipo | Empl. | Capital | Interés | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + QR de verificación                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 238, Green: 242, Blue: 247}
)

var _ ports.PlanillaReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa PlanillaReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(r ports.PlanillaReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de planillas PILA "+pila.FormatNIT(r.NIT), true).
		WithAuthor(nonEmpty(g.author, "ESAP"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(aportanteRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(r.Stats))
	m.AddRows(line.NewRow(2))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Planillas)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r ports.PlanillaReport) core.Row {
	nit := pila.FormatNIT(r.NIT)
	if dv, err := pila.ComputeVerificationDigit(r.NIT); err == nil {
		nit += "-" + strconv.Itoa(dv)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REPORTE DE PLANILLAS PILA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Períodos %d a %d", r.Years.Min, r.Years.Max), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NIT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nit, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+r.GeneradoEn.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func aportanteRow(r ports.PlanillaReport) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("APORTANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.Entidad, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(describeFilter(r.Filtro), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func describeFilter(f planilla.Filter) string {
	tipo := "Todos los tipos"
	if t := strings.TrimSpace(f.Tipo); t != "" && !strings.EqualFold(t, planilla.TodosLosTipos) {
		desc, _ := pila.DescripcionTipo(strings.ToUpper(t))
		tipo = fmt.Sprintf("Tipo %s %s", strings.ToUpper(t), desc)
	}
	if q := strings.TrimSpace(f.Busqueda); q != "" {
		return fmt.Sprintf("Filtro: %s   |   Búsqueda: %q", tipo, q)
	}
	return "Filtro: " + tipo
}

func summaryRow(s planilla.Stats) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 5}),
		)
	}
	tipo := s.TipoMasFrecuente
	if s.DescripcionTipo != "" {
		tipo += " " + s.DescripcionTipo
	}
	return row.New(14).Add(
		cell("Planillas", strconv.Itoa(s.TotalPlanillas)),
		cell("Empleados", strconv.Itoa(s.TotalEmpleados)),
		cell("Promedio empleados", strconv.Itoa(s.PromedioEmpleados)),
		col.New(3).Add(
			text.New("Tipo más frecuente", props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(tipo, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 5}),
		),
		col.New(3).Add(
			text.New("Valor total", props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(FormatCOP(s.TotalValor), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 5, Color: colorPrimary,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Año", 1, align.Center),
		h("Mes", 1, align.Left),
		h("Tipo", 1, align.Center),
		h("Empl.", 1, align.Center),
		h("Capital", 2, align.Right),
		h("Interés", 2, align.Right),
		h("Valor total", 2, align.Right),
		h("Operador", 2, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows una fila por planilla, del período más reciente al más antiguo.
func tableRows(items []entity.Planilla) []core.Row {
	sorted := make([]entity.Planilla, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Anio != sorted[j].Anio {
			return sorted[i].Anio > sorted[j].Anio
		}
		return sorted[i].Mes > sorted[j].Mes
	})

	out := make([]core.Row, 0, len(sorted))
	for i, p := range sorted {
		r := row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(p.Anio), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(pila.MesCorto(p.Mes), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(p.TipoPlanilla, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(p.TotalEmpleados), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatCOP(p.Capital), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatCOP(p.Interes), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatCOP(p.ValorTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(p.NombreOperador, props.Text{Size: 7, Top: 1, Left: 1})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, r)
	}
	return out
}

func totalsRow(r ports.PlanillaReport) core.Row {
	capital, interes := decimal.Zero, decimal.Zero
	for _, p := range r.Planillas {
		capital = capital.Add(p.Capital)
		interes = interes.Add(p.Interes)
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	verify := fmt.Sprintf("NIT:%s|PLANILLAS:%d|TOTAL:%s|FECHA:%s",
		r.NIT, r.Stats.TotalPlanillas, r.Stats.TotalValor.StringFixed(0), r.GeneradoEn.Format("2006-01-02"))

	return row.New(30).Add(
		col.New(3).Add(code.NewQr(verify, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(3).Add(
			label("Capital:"),
			label("Intereses de mora:"),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 10,
			}),
		),
		col.New(3).Add(
			value(FormatCOP(capital)),
			text.New(FormatCOP(interes), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(FormatCOP(r.Stats.TotalValor), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 10,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatCOP formato de pesos sin decimales con puntos de miles.
// Ej: 1234567.6 → "$1.234.568", -2500 → "-$2.500".
func FormatCOP(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	return sign + "$" + formatMoney(s)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
