package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
)

// File archivo recibido en una carga multipart.
type File struct {
	Name string
	Data []byte
}

// Download archivo generado para descargar.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SpreadsheetParser lee un archivo de aportantes (xlsx, xls o csv) como filas ordenadas.
type SpreadsheetParser interface {
	Parse(ctx context.Context, fileName string, data []byte) ([]entity.Record, error)
}

// CruceResult salida del cruce de LOG: el ZIP generado y las métricas de los encabezados.
type CruceResult struct {
	Download
	Stats dto.CruceStats
}

// ProcessingEngine puerto hacia el motor externo que procesa planillas PILA y hace
// el cruce contra el LOG bancario. Los errores distinguen motor caído
// (domain.ErrUpstreamUnavailable) de solicitud rechazada (domain.ErrUpstreamRejected).
type ProcessingEngine interface {
	ProcesarPlanillas(ctx context.Context, zip File) (*Download, error)
	ValidarCruce(ctx context.Context, log File, planillas []File) (json.RawMessage, error)
	ProcesarCruce(ctx context.Context, log File, planillas []File, mesesReferencia int) (*CruceResult, error)
}

// ZipInspector cuenta el contenido de un ZIP sin extraerlo.
type ZipInspector interface {
	Inspect(name string, data []byte) (*dto.ZipInfoResponse, error)
}

// PlanillaReport datos del reporte PDF de planillas de un aportante.
type PlanillaReport struct {
	NIT        string
	Entidad    string
	Filtro     planilla.Filter
	Years      planilla.YearRange
	Planillas  []entity.Planilla
	Stats      planilla.Stats
	GeneradoEn time.Time
}

// PlanillaReportGenerator genera el PDF del reporte de planillas.
type PlanillaReportGenerator interface {
	Generate(report PlanillaReport) ([]byte, error)
}

// CSVExporter genera los CSV descargables.
type CSVExporter interface {
	Records(rows []entity.Record) ([]byte, error)
	Planillas(planillas []entity.Planilla) ([]byte, error)
}
