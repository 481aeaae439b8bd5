package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/platform/correlation"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) registerRoutes() error {
	origin, err := appOrigin(s.config.AppURL)
	if err != nil {
		return err
	}

	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            63072000, // 2 years; only sent over HTTPS
		HSTSPreloadEnabled:    true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{origin},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, condominiumHeader, correlation.Header},
		ExposeHeaders: []string{correlation.Header, echo.HeaderContentDisposition},
		MaxAge:        600,
	}))

	s.registerHealthRoutes()
	if s.handlers.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.handlers.Metrics))
	}
	if s.handlers.WebSocket != nil {
		s.echo.GET("/ws", echo.WrapHandler(s.handlers.WebSocket))
	}

	api := s.echo.Group("/api/v1")
	s.registerAuthRoutes(api)

	authed := api.Group("", s.requireAuth)
	s.registerAdminRoutes(authed)
	s.registerFacilityRoutes(authed)
	s.registerHRRoutes(authed)
	s.registerMarketRoutes(authed)
	s.registerCollaborationRoutes(authed)
	s.registerNotificationRoutes(authed)
	s.registerReportRoutes(authed)
	return nil
}

func (s *Server) registerAdminRoutes(g *echo.Group) {
	condos := g.Group("/condominiums", requireRole(domain.RoleAdmin))
	condos.GET("", s.handleListCondominiums)
	condos.POST("", s.handleCreateCondominium)
	condos.GET("/:id", s.handleGetCondominium)
	condos.PUT("/:id", s.handleUpdateCondominium)

	users := g.Group("/users", requireManager)
	users.GET("", s.handleListUsers)
	users.POST("", s.handleCreateUser)
	users.GET("/:id", s.handleGetUser)
	users.PUT("/:id", s.handleUpdateUser)
	users.DELETE("/:id", s.handleDeleteUser)

	g.GET("/permissions", s.handleGetPermissions)
	g.PUT("/permissions", s.handleSetPermissions, requireRole(domain.RoleAdmin))
}

func (s *Server) registerFacilityRoutes(g *echo.Group) {
	equipment := g.Group("/equipment", s.requireModule(domain.ModuleEquipment))
	equipment.GET("", s.handleListEquipment)
	equipment.GET("/:id", s.handleGetEquipment)
	equipment.POST("", s.handleCreateEquipment, requireManager)
	equipment.PUT("/:id", s.handleUpdateEquipment, requireManager)
	equipment.DELETE("/:id", s.handleDeleteEquipment, requireManager)

	maintenance := g.Group("/maintenance", s.requireModule(domain.ModuleMaintenance))
	maintenance.GET("", s.handleListMaintenance)
	maintenance.POST("", s.handleCreateMaintenance)
	maintenance.GET("/:id", s.handleGetMaintenance)
	maintenance.PUT("/:id", s.handleUpdateMaintenance, requireStaff)
	maintenance.POST("/:id/status", s.handleTransitionMaintenance, requireStaff)

	readings := g.Group("/readings", s.requireModule(domain.ModuleReadings))
	readings.GET("", s.handleListReadings)
	readings.GET("/consumption", s.handleConsumption)
	readings.POST("", s.handleCreateReading, requireStaff)
	readings.DELETE("/:id", s.handleDeleteReading, requireManager)
}

func (s *Server) registerHRRoutes(g *echo.Group) {
	employees := g.Group("/employees", s.requireModule(domain.ModuleHR), requireManager)
	employees.GET("", s.handleListEmployees)
	employees.POST("", s.handleCreateEmployee)
	employees.GET("/:id", s.handleGetEmployee)
	employees.PUT("/:id", s.handleUpdateEmployee)
	employees.DELETE("/:id", s.handleDeleteEmployee)
	employees.GET("/:id/payslip", s.handlePayslip)
	employees.GET("/:id/liabilities", s.handleLiabilities)
	employees.POST("/:id/severance", s.handleSeverance)

	g.POST("/payroll/calculate", s.handleCalculatePayroll, s.requireModule(domain.ModuleHR), requireManager)
}

func (s *Server) registerMarketRoutes(g *echo.Group) {
	market := g.Group("/market", s.requireModule(domain.ModuleMarket))
	market.GET("/products", s.handleListProducts)
	market.GET("/products/:id", s.handleGetProduct)
	market.POST("/products", s.handleCreateProduct, requireManager)
	market.PUT("/products/:id", s.handleUpdateProduct, requireManager)
	market.DELETE("/products/:id", s.handleDeleteProduct, requireManager)
	market.GET("/sales", s.handleListSales)
	market.POST("/sales", s.handleCreateSale)
}

func (s *Server) registerCollaborationRoutes(g *echo.Group) {
	teams := g.Group("/teams", s.requireModule(domain.ModuleTeams))
	teams.GET("", s.handleListTeams)
	teams.GET("/:id", s.handleGetTeam)
	teams.POST("", s.handleCreateTeam, requireManager)
	teams.PUT("/:id", s.handleUpdateTeam, requireManager)
	teams.DELETE("/:id", s.handleDeleteTeam, requireManager)

	processes := g.Group("/processes", s.requireModule(domain.ModuleTeams))
	processes.GET("", s.handleListProcesses)
	processes.GET("/:id", s.handleGetProcess)
	processes.POST("", s.handleCreateProcess, requireManager)
	processes.PUT("/:id", s.handleUpdateProcess, requireManager)
	processes.DELETE("/:id", s.handleDeleteProcess, requireManager)

	activities := g.Group("/activities", s.requireModule(domain.ModuleActivities))
	activities.GET("", s.handleListActivities)
	activities.GET("/:id", s.handleGetActivity)
	activities.POST("", s.handleCreateActivity, requireManager)
	activities.PUT("/:id", s.handleUpdateActivity, requireManager)
	activities.DELETE("/:id", s.handleDeleteActivity, requireManager)

	announcements := g.Group("/announcements", s.requireModule(domain.ModuleAnnouncements))
	announcements.GET("", s.handleListAnnouncements)
	announcements.GET("/:id", s.handleGetAnnouncement)
	announcements.POST("", s.handleCreateAnnouncement, requireManager)
	announcements.PUT("/:id", s.handleUpdateAnnouncement, requireManager)
	announcements.DELETE("/:id", s.handleDeleteAnnouncement, requireManager)
}

func (s *Server) registerNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", s.handleListNotifications)
	g.POST("/notifications/:id/read", s.handleMarkNotificationRead)
}

func (s *Server) registerReportRoutes(g *echo.Group) {
	reports := g.Group("/reports", s.requireModule(domain.ModuleReports), requireManager)
	reports.GET("/maintenance.pdf", s.handleMaintenanceReport)
	reports.GET("/readings.pdf", s.handleReadingsReport)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

// appOrigin reduces APP_URL to the scheme://host form browsers send in Origin.
func appOrigin(appURL string) (string, error) {
	u, err := url.Parse(appURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid APP_URL %q", appURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
