package archive

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/domain"
)

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, n := range names {
		f, err := w.Create(n)
		require.NoError(t, err)
		if strings.HasSuffix(n, "/") {
			continue
		}
		_, err = f.Write([]byte("contenido"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := buildZip(t, "enero/", "enero/I_2024.TXT", "enero/A_2024.txt", "resumen.xlsx", "__MACOSX/._x.txt", ".DS_Store")

	out, err := ZipInspector{}.Inspect("planillas.zip", data)
	require.NoError(t, err)
	assert.Equal(t, "planillas.zip", out.Nombre)
	assert.Equal(t, int64(len(data)), out.TamanoBytes)
	assert.Len(t, out.Checksum, 16)
	assert.Equal(t, 3, out.TotalArchivos)
	assert.Equal(t, 2, out.ArchivosTxt)
	assert.Equal(t, []string{"enero/I_2024.TXT", "enero/A_2024.txt", "resumen.xlsx"}, out.Archivos)
}

func TestInspect_NoEsZip(t *testing.T) {
	_, err := ZipInspector{}.Inspect("x.zip", []byte("hola"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
