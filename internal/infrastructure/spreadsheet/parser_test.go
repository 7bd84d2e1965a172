package spreadsheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

func parse(t *testing.T, name string, data []byte) []map[string]any {
	t.Helper()
	recs, err := NewParser(logger.Nop()).Parse(context.Background(), name, data)
	require.NoError(t, err)
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		m := map[string]any{}
		for _, f := range r.Fields() {
			m[f.Key] = f.Value
		}
		out = append(out, m)
	}
	return out
}

func TestParseCSV_PuntoYComaConBOM(t *testing.T) {
	data := []byte("\xEF\xBB\xBFNIT;ENTIDAD APORTANTE;MUNICIPIO / ISLA\n" +
		"899999034;\"ESAP; sede central\";BOGOTÁ\n" +
		";;\n" +
		"800197268;DIAN;\n")

	rows := parse(t, "aportantes.csv", data)
	require.Len(t, rows, 2)
	assert.Equal(t, "899999034", rows[0]["NIT"])
	assert.Equal(t, "ESAP; sede central", rows[0]["ENTIDAD APORTANTE"])
	assert.Equal(t, "BOGOTÁ", rows[0]["MUNICIPIO / ISLA"])
	assert.Nil(t, rows[1]["MUNICIPIO / ISLA"])
}

func TestParseCSV_Windows1252(t *testing.T) {
	utf := "DEPARTAMENTO,MUNICIPIO\nBOYACÁ,TUNJA\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	rows := parse(t, "aportantes.csv", []byte(latin))
	require.Len(t, rows, 1)
	assert.Equal(t, "BOYACÁ", rows[0]["DEPARTAMENTO"])
}

func TestParseCSV_EncabezadosVaciosYRepetidos(t *testing.T) {
	data := []byte("NIT,,NIT\n1,2,3,4\n")

	recs, err := NewParser(logger.Nop()).Parse(context.Background(), "a.csv", data)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"NIT", "Columna 2", "NIT (2)", "Columna 4"}, recs[0].Keys())
	assert.Equal(t, "1", recs[0].Text("NIT"))
	assert.Equal(t, "4", recs[0].Text("Columna 4"))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"NIT", "Nombre Aportante", "DEPARTAMENTO"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"900123456", "ACME", "META"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A5", &[]any{"800197268", "DIAN", "Antioquia"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows := parse(t, "aportantes.xlsx", buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "900123456", rows[0]["NIT"])
	assert.Equal(t, "ACME", rows[0]["Nombre Aportante"])
	assert.Equal(t, "Antioquia", rows[1]["DEPARTAMENTO"])
}

func TestParse_Errores(t *testing.T) {
	p := NewParser(logger.Nop())
	ctx := context.Background()

	_, err := p.Parse(ctx, "a.csv", []byte("  \n"))
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = p.Parse(ctx, "a.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)

	_, err = p.Parse(ctx, "a.xlsx", []byte("no es un zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, '\t', detectDelimiter([]byte("a\tb\tc")))
	assert.Equal(t, ',', detectDelimiter([]byte("\"a;b\",c")))
	assert.Equal(t, ',', detectDelimiter([]byte("solo")))
}
