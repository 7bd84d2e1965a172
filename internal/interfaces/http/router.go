package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/auth"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	AportanteUC     *usecase.AportanteUseCase
	PlanillaUC      *usecase.PlanillaUseCase
	ProcesamientoUC *usecase.ProcesamientoUseCase
	CatalogoUC      *usecase.CatalogoUseCase
	Authorizer      *Authorizer
	Tokens          TokenVerifier
	MaxUploadBytes  int
	RequestTimeout  time.Duration
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestContext(deps.RequestTimeout))
	requireAuth := AuthMiddleware(deps.Tokens)

	// Auth: login público, registro solo admin
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", requireAuth, RequireRole(entity.RoleAdmin), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token); el guard va por grupo para no alcanzar /auth/login
	guard := []fiber.Handler{requireAuth, Authorize(deps.Authorizer)}

	// Sesiones de aportantes
	aportanteHandler := NewAportanteHandler(deps.AportanteUC, log, deps.MaxUploadBytes)
	sesiones := api.Group("/aportantes/sesiones", guard...)
	sesiones.Post("/", aportanteHandler.CreateSession)
	sesiones.Get("/:id", aportanteHandler.GetSession)
	sesiones.Delete("/:id", aportanteHandler.DeleteSession)
	sesiones.Get("/:id/nits", aportanteHandler.ListNITs)
	sesiones.Get("/:id/filtros", aportanteHandler.Filtros)
	sesiones.Get("/:id/municipios", aportanteHandler.Municipios)
	sesiones.Get("/:id/filtrar", aportanteHandler.Filtrar)
	sesiones.Get("/:id/detalle/:nit", aportanteHandler.Detalle)
	sesiones.Get("/:id/detalle/:nit/csv", aportanteHandler.DetalleCSV)
	sesiones.Get("/:id/datos", aportanteHandler.Datos)
	sesiones.Get("/:id/mapa", aportanteHandler.Mapa)

	// Planillas PILA
	planillaHandler := NewPlanillaHandler(deps.PlanillaUC, log)
	planillas := api.Group("/planillas", guard...)
	planillas.Get("/:nit", planillaHandler.List)
	planillas.Get("/:nit/matriz", planillaHandler.Matriz)
	planillas.Get("/:nit/disponibles", planillaHandler.Disponibles)
	planillas.Get("/:nit/csv", planillaHandler.CSV)
	planillas.Get("/:nit/reporte.pdf", planillaHandler.ReportPDF)

	// Motor de procesamiento y cruce de LOG
	procHandler := NewProcesamientoHandler(deps.ProcesamientoUC, log, deps.MaxUploadBytes)
	proc := api.Group("/procesamiento", guard...)
	proc.Post("/info-zip", procHandler.InfoZip)
	proc.Post("/procesar", procHandler.Procesar)
	cruce := api.Group("/cruce-log", guard...)
	cruce.Post("/validar", procHandler.ValidarCruce)
	cruce.Post("/procesar", procHandler.ProcesarCruce)

	// Catálogos DIVIPOLA
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC, log)
	catalogos := api.Group("/catalogos", guard...)
	catalogos.Get("/departamentos", catalogoHandler.Departamentos)
	catalogos.Get("/municipios", catalogoHandler.Municipios)
}
