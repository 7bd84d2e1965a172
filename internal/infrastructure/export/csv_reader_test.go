package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// planillaCSVRow línea leída de un CSV de planillas.
type planillaCSVRow struct {
	Anio           int
	Mes            int
	Tipo           string
	Descripcion    string
	Empleados      int
	ValorTotal     decimal.Decimal
	Capital        decimal.Decimal
	Interes        decimal.Decimal
	NombreOperador string
	Archivo        string
}

// readRecordsCSV lee un CSV generado por Records. Las celdas vacías quedan en nil.
func readRecordsCSV(t *testing.T, data []byte) []entity.Record {
	t.Helper()
	lines := readCSV(t, data)
	if len(lines) == 0 {
		return nil
	}
	headers := lines[0]
	out := make([]entity.Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := make([]entity.Field, len(headers))
		for i, h := range headers {
			fields[i] = entity.Field{Key: h}
			if i < len(line) && line[i] != "" {
				fields[i].Value = line[i]
			}
		}
		out = append(out, entity.NewRecord(fields...))
	}
	return out
}

// readPlanillasCSV lee un CSV generado por Planillas.
func readPlanillasCSV(t *testing.T, data []byte) []planillaCSVRow {
	t.Helper()
	lines := readCSV(t, data)
	require.NotEmpty(t, lines)
	require.Equal(t, PlanillaHeaders, lines[0])

	out := make([]planillaCSVRow, 0, len(lines)-1)
	for n, l := range lines[1:] {
		msg := fmt.Sprintf("línea %d", n+2)
		require.Len(t, l, len(PlanillaHeaders), msg)

		var (
			r   planillaCSVRow
			err error
		)
		r.Anio, err = strconv.Atoi(l[0])
		require.NoError(t, err, msg)
		r.Mes = numeroMes(l[1])
		require.NotZero(t, r.Mes, "%s: mes %q", msg, l[1])
		r.Tipo, r.Descripcion = l[2], l[3]
		r.Empleados, err = strconv.Atoi(l[4])
		require.NoError(t, err, msg)
		for i, dst := range []*decimal.Decimal{&r.ValorTotal, &r.Capital, &r.Interes} {
			*dst, err = decimal.NewFromString(l[5+i])
			require.NoError(t, err, "%s, %s", msg, PlanillaHeaders[5+i])
		}
		r.NombreOperador, r.Archivo = l[8], l[9]
		out = append(out, r)
	}
	return out
}

func numeroMes(nombre string) int {
	for m := 1; m <= 12; m++ {
		if pila.MesCompleto(m) == nombre {
			return m
		}
	}
	return 0
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	lines, err := r.ReadAll()
	require.NoError(t, err)
	return lines
}
