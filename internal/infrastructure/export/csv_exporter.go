// Package export genera los CSV descargables de filas de aportantes y de planillas.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/pila"
)

var _ ports.CSVExporter = CSVExporter{}

// PlanillaHeaders columnas del CSV de planillas.
var PlanillaHeaders = []string{
	"Año", "Mes", "Tipo", "Descripción", "Empleados", "Valor Total", "Capital", "Interés", "Operador", "Archivo",
}

// utf8BOM hace que Excel abra el archivo como UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter CSV separado por comas, UTF-8 con BOM.
type CSVExporter struct{}

// NewCSVExporter construye el exportador.
func NewCSVExporter() CSVExporter { return CSVExporter{} }

// Records escribe las filas con la unión de sus columnas en orden de primera
// aparición. Los valores vacíos quedan como celda vacía.
func (CSVExporter) Records(rows []entity.Record) ([]byte, error) {
	headers := make([]string, 0)
	seen := map[string]struct{}{}
	for _, r := range rows {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
	}

	return write(headers, len(rows), func(i int) []string {
		line := make([]string, len(headers))
		for c, h := range headers {
			line[c] = rows[i].Text(h)
		}
		return line
	})
}

// Planillas escribe una línea por planilla con PlanillaHeaders.
func (CSVExporter) Planillas(items []entity.Planilla) ([]byte, error) {
	return write(PlanillaHeaders, len(items), func(i int) []string {
		p := items[i]
		desc, _ := pila.DescripcionTipo(p.TipoPlanilla)
		return []string{
			strconv.Itoa(p.Anio),
			pila.MesCompleto(p.Mes),
			p.TipoPlanilla,
			desc,
			strconv.Itoa(p.TotalEmpleados),
			p.ValorTotal.StringFixed(2),
			p.Capital.StringFixed(2),
			p.Interes.StringFixed(2),
			p.NombreOperador,
			p.Archivo,
		}
	})
}

func write(headers []string, n int, line func(i int) []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("csv encabezado: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(line(i)); err != nil {
			return nil, fmt.Errorf("csv fila %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}
