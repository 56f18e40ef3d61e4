package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/metrics"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderDeskFacade, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(m.Middleware())
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade, facade)

	engine.GET("/healthz", handlers.Health(facade))
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	public := api.Group("")
	public.Use(middleware.OptionalAuth(facade))
	public.POST("/orders", orderHandler.Create)
	public.GET("/orders/track", orderHandler.Track)
	public.GET("/delivery/quote", orderHandler.Quote)

	user := api.Group("/user")
	user.Use(middleware.AuthRequired(facade), middleware.RequireRole(model.RoleCustomer))
	user.GET("/orders", orderHandler.List)

	staff := api.Group("/admin")
	staff.Use(middleware.AuthRequired(facade), middleware.RequireRole(model.RoleOperator, model.RoleAdmin))
	staff.POST("/orders", adminHandler.Create)
	staff.GET("/orders", adminHandler.List)
	staff.GET("/orders/:id", adminHandler.Get)
	staff.PATCH("/orders/:id/status", adminHandler.ChangeStatus)

	admin := staff.Group("")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.DELETE("/orders/:id", adminHandler.Delete)
	admin.POST("/accounts", authHandler.CreateStaff)

	return engine
}
