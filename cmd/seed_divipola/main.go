// seed_divipola carga el catálogo DIVIPOLA de municipios en divipola_municipios
// a partir del XML paramétrico oficial (Municipios.xml).
//
// Uso: go run ./cmd/seed_divipola [ruta/Municipios.xml]
// Por defecto busca Municipios.xml en el directorio actual.
package main

import (
	"context"
	"os"
	"time"

	"github.com/esap/parafiscales-api/internal/infrastructure/postgres"
	"github.com/esap/parafiscales-api/pkg/config"
	"github.com/esap/parafiscales-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Named("seed_divipola")

	xmlPath := "Municipios.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	municipios, err := parseMunicipios(f)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", xmlPath).Msg("decodificar XML")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.DB.RunMigrations {
		if _, err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	n, err := postgres.NewDivipolaRepository(pool).Upsert(ctx, municipios)
	if err != nil {
		log.Fatal().Err(err).Int("cargados", n).Msg("upsert municipios")
	}
	log.Info().Int("municipios", n).Str("archivo", xmlPath).Msg("catálogo DIVIPOLA cargado")
}
