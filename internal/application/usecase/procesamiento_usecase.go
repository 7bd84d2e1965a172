package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// MesesReferenciaPorDefecto meses hacia atrás que el cruce considera si no se indica otro valor.
const MesesReferenciaPorDefecto = 2

// ProcesamientoUseCase procesamiento de ZIP de planillas y cruce contra el LOG bancario,
// delegados al motor externo.
type ProcesamientoUseCase struct {
	engine ports.ProcessingEngine
	zips   ports.ZipInspector
	log    *logger.Logger
}

// NewProcesamientoUseCase construye el caso de uso.
func NewProcesamientoUseCase(engine ports.ProcessingEngine, zips ports.ZipInspector, log *logger.Logger) *ProcesamientoUseCase {
	return &ProcesamientoUseCase{engine: engine, zips: zips, log: log.Named("procesamiento")}
}

// InfoZip tamaño y contenido del ZIP, calculado localmente.
func (uc *ProcesamientoUseCase) InfoZip(f ports.File) (*dto.ZipInfoResponse, error) {
	if err := requireExt(f, ".zip"); err != nil {
		return nil, err
	}
	return uc.zips.Inspect(f.Name, f.Data)
}

// Procesar envía el ZIP de planillas al motor y devuelve el Excel consolidado.
func (uc *ProcesamientoUseCase) Procesar(ctx context.Context, f ports.File) (*ports.Download, error) {
	if err := requireExt(f, ".zip"); err != nil {
		return nil, err
	}
	out, err := uc.engine.ProcesarPlanillas(ctx, f)
	if err != nil {
		uc.log.Error().Err(err).Str("archivo", f.Name).Msg("procesamiento de planillas")
		return nil, err
	}
	uc.log.Info().Str("archivo", f.Name).Int("bytes_resultado", len(out.Data)).Msg("planillas procesadas")
	return out, nil
}

// ValidarCruce pide al motor el resumen de validación del LOG contra las planillas.
func (uc *ProcesamientoUseCase) ValidarCruce(ctx context.Context, logFile ports.File, planillas []ports.File) (json.RawMessage, error) {
	if err := validateCruceInput(logFile, planillas); err != nil {
		return nil, err
	}
	out, err := uc.engine.ValidarCruce(ctx, logFile, planillas)
	if err != nil {
		uc.log.Error().Err(err).Str("log", logFile.Name).Int("planillas", len(planillas)).Msg("validación de cruce")
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNoData
	}
	return out, nil
}

// ProcesarCruce ejecuta el cruce y devuelve el ZIP con los resultados y sus métricas.
// mesesReferencia <= 0 usa MesesReferenciaPorDefecto.
func (uc *ProcesamientoUseCase) ProcesarCruce(ctx context.Context, logFile ports.File, planillas []ports.File, mesesReferencia int) (*ports.CruceResult, error) {
	if err := validateCruceInput(logFile, planillas); err != nil {
		return nil, err
	}
	if mesesReferencia <= 0 {
		mesesReferencia = MesesReferenciaPorDefecto
	}
	out, err := uc.engine.ProcesarCruce(ctx, logFile, planillas, mesesReferencia)
	if err != nil {
		uc.log.Error().Err(err).Str("log", logFile.Name).Int("meses_referencia", mesesReferencia).Msg("cruce de log")
		return nil, err
	}
	uc.log.Info().
		Str("log", logFile.Name).
		Int("planillas", len(planillas)).
		Int("matches", out.Stats.MatchesEncontrados).
		Int("errores", out.Stats.Errores).
		Msg("cruce de log procesado")
	return out, nil
}

func validateCruceInput(logFile ports.File, planillas []ports.File) error {
	if len(logFile.Data) == 0 {
		return fmt.Errorf("%w: falta el archivo LOG", domain.ErrInvalidInput)
	}
	if len(planillas) == 0 {
		return fmt.Errorf("%w: se requiere al menos un archivo de planillas", domain.ErrInvalidInput)
	}
	for _, p := range planillas {
		if err := requireExt(p, ".txt", ".zip"); err != nil {
			return err
		}
	}
	return nil
}

func requireExt(f ports.File, exts ...string) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEmptyFile, f.Name)
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	for _, e := range exts {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (se espera %s)", domain.ErrUnsupportedFile, f.Name, strings.Join(exts, ", "))
}
