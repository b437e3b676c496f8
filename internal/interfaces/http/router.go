package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/dashboard"
	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	DashboardUC  *dashboard.UseCase
	Sessions     *datasync.Registry
	JWTSecret    string
	ReadyTimeout time.Duration
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas: Bearer Token + sesión de sincronización del usuario
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		SessionMiddleware(deps.Sessions, deps.ReadyTimeout, deps.Log),
	)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dash := protected.Group("/dashboard")
	dash.Get("/summary", dashboardHandler.GetSummary)
	dash.Get("/cashflow", dashboardHandler.GetCashFlow)
	dash.Get("/categories", dashboardHandler.GetCategories)
	dash.Get("/overdue", dashboardHandler.GetOverdue)
	protected.Get("/reports/financial.pdf", dashboardHandler.GetFinancialReport)

	// Exportación e importación (antes que /:id de cada Kind)
	protected.Get("/customers/export.csv", ExportCustomers)
	protected.Post("/movements/import", ImportMovements)

	// CRUD de las seis colecciones
	registerRecordHandlers(protected)
}
