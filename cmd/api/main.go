package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/esap/parafiscales-api/internal/application/auth"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
	"github.com/esap/parafiscales-api/internal/infrastructure/archive"
	"github.com/esap/parafiscales-api/internal/infrastructure/engine"
	"github.com/esap/parafiscales-api/internal/infrastructure/export"
	infrapdf "github.com/esap/parafiscales-api/internal/infrastructure/pdf"
	"github.com/esap/parafiscales-api/internal/infrastructure/postgres"
	"github.com/esap/parafiscales-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/esap/parafiscales-api/internal/interfaces/http"
	"github.com/esap/parafiscales-api/pkg/config"
	"github.com/esap/parafiscales-api/pkg/jwt"
	"github.com/esap/parafiscales-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("motor", cfg.Upstream.BaseURL).
		Msg("iniciando aplicación")

	tokens, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET y JWT_EXPIRATION_MINUTES son requeridos")
	}

	if cfg.DB.RunMigrations {
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	planillaRepo := postgres.NewPlanillaRepository(pool)
	divipolaRepo := postgres.NewDivipolaRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, tokens)
	if cfg.Admin.Email != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
		}
	}

	csvExporter := export.NewCSVExporter()
	years := planilla.YearRange{Min: cfg.Planillas.MinYear, Max: cfg.Planillas.MaxYear}

	aportanteUC := usecase.NewAportanteUseCase(
		sessionRepo, planillaRepo, spreadsheet.NewParser(log), csvExporter, log, cfg.Session.TTL,
	)
	planillaUC := usecase.NewPlanillaUseCase(
		planillaRepo, csvExporter, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), years, log,
	)
	procesamientoUC := usecase.NewProcesamientoUseCase(
		engine.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log), archive.ZipInspector{}, log,
	)
	catalogoUC := usecase.NewCatalogoUseCase(divipolaRepo)

	// Limpieza periódica de sesiones vencidas
	go aportanteUC.RunJanitor(ctx, cfg.Session.JanitorInterval)

	authorizer, err := httpRouter.NewAuthorizer()
	if err != nil {
		log.Fatal().Err(err).Msg("política de autorización")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Upload.MaxBytes() + 1024*1024,
		ReadTimeout:  time.Minute * 5,
		WriteTimeout: cfg.HTTP.RequestTimeout + time.Minute,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, X-Matches-Encontrados, X-Capital-Actual, X-Capital-Anterior, X-Interes-Actual, X-Interes-Anterior, X-Total-Archivos-I, X-Errores",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ESAP Parafiscales API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		AportanteUC:     aportanteUC,
		PlanillaUC:      planillaUC,
		ProcesamientoUC: procesamientoUC,
		CatalogoUC:      catalogoUC,
		Authorizer:      authorizer,
		Tokens:          tokens,
		MaxUploadBytes:  cfg.Upload.MaxBytes(),
		RequestTimeout:  cfg.HTTP.RequestTimeout,
		Log:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
