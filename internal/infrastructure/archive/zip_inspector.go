// Package archive inspecciona los ZIP de planillas antes de enviarlos al motor.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/checksum"
)

var _ ports.ZipInspector = ZipInspector{}

// ZipInspector lee el directorio central del ZIP sin descomprimir el contenido.
type ZipInspector struct{}

// Inspect cuenta las entradas (sin directorios) y cuántas son .txt.
func (ZipInspector) Inspect(name string, data []byte) (*dto.ZipInfoResponse, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s no es un ZIP válido: %v", domain.ErrInvalidInput, name, err)
	}

	out := &dto.ZipInfoResponse{
		Nombre:      name,
		Checksum:    checksum.Bytes(data),
		TamanoBytes: int64(len(data)),
		TamanoMB:    math.Round(float64(len(data))/(1024*1024)*100) / 100,
		Archivos:    make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(path.Base(f.Name), ".") || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		out.TotalArchivos++
		if strings.EqualFold(path.Ext(f.Name), ".txt") {
			out.ArchivosTxt++
		}
		out.Archivos = append(out.Archivos, f.Name)
	}
	return out, nil
}
