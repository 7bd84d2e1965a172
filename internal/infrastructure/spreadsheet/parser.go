// Package spreadsheet lee los archivos de aportantes (xlsx, xls y csv) y los
// convierte en registros con las columnas en el orden del archivo.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/logger"
)

var _ ports.SpreadsheetParser = (*Parser)(nil)

// Parser implementación de SpreadsheetParser según la extensión del archivo.
type Parser struct {
	log *logger.Logger
}

// NewParser construye el lector de hojas de cálculo.
func NewParser(log *logger.Logger) *Parser {
	return &Parser{log: log.Named("spreadsheet")}
}

// Parse toma la primera hoja (o el CSV completo); la primera fila no vacía es el
// encabezado. Las filas en blanco se omiten y las celdas vacías quedan en nil.
func (p *Parser) Parse(ctx context.Context, fileName string, data []byte) ([]entity.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyFile, fileName)
	}

	var (
		grid [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx", ".xlsm":
		grid, err = readXLSX(data)
	case ".xls":
		grid, err = readXLS(data)
	case ".csv", ".txt":
		grid, err = readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s (se espera .xlsx, .xls o .csv)", domain.ErrUnsupportedFile, fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, fileName, err)
	}

	records, err := toRecords(ctx, grid)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("archivo", fileName).Int("filas", len(records)).Msg("archivo leído")
	return records, nil
}

// toRecords usa la primera fila no vacía como encabezado.
func toRecords(ctx context.Context, grid [][]string) ([]entity.Record, error) {
	start := -1
	width := 0
	for i, row := range grid {
		if start < 0 && !blankRow(row) {
			start = i
		}
		if len(row) > width {
			width = len(row)
		}
	}
	if start < 0 {
		return nil, nil
	}

	headers := buildHeaders(grid[start], width)
	out := make([]entity.Record, 0, len(grid)-start-1)
	for i, row := range grid[start+1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blankRow(row) {
			continue
		}
		fields := make([]entity.Field, width)
		for c := 0; c < width; c++ {
			fields[c] = entity.Field{Key: headers[c], Value: cellValue(row, c)}
		}
		out = append(out, entity.NewRecord(fields...))
	}
	return out, nil
}

// buildHeaders completa encabezados vacíos con "Columna N" y desambigua repetidos con " (2)", " (3)"...
func buildHeaders(row []string, width int) []string {
	out := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(row) {
			h = strings.TrimSpace(strings.TrimPrefix(row[i], "\ufeff"))
		}
		if h == "" {
			h = fmt.Sprintf("Columna %d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s (%d)", h, n)
		}
		out[i] = h
	}
	return out
}

func cellValue(row []string, i int) any {
	if i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return v
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
