// Package api assembles the HTTP surface: routing, middleware, and the
// central domain-error mapping.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blueprintmfg/settings-portal/internal/api/handler"
	"github.com/blueprintmfg/settings-portal/internal/api/middleware"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
	"github.com/blueprintmfg/settings-portal/internal/core/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Gateway    ports.Gateway
	Auth       ports.AuthGateway
	Store      ports.StateStore
	Reconciler *session.Reconciler
	Cache      ports.SessionCache
	JWTSecret  string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Reconciler, d.Store)
	searchHandler := handler.NewSearchHandler(d.Store)
	settingHandler := handler.NewSettingHandler(d.Store)
	structureHandler := handler.NewStructureHandler(d.Store)
	feedbackHandler := handler.NewFeedbackHandler(d.Store)
	voteHandler := handler.NewVoteHandler(d.Store)
	adminHandler := handler.NewAdminHandler(d.Store, d.Cache)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	authMW := middleware.Auth(d.JWTSecret, d.Gateway.Profiles)
	moderation := middleware.RBAC(domain.RoleAdmin, domain.RoleModerator)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMW)
	e.GET("/auth/me", authHandler.Me, authMW)

	// --- Public lookup flow ---
	v1 := e.Group("/v1")
	v1.GET("/search/case-sizes", searchHandler.CaseSizes)
	v1.GET("/search/settings", searchHandler.Browse)
	v1.GET("/settings/:id", searchHandler.Detail)
	v1.POST("/feedback", feedbackHandler.Submit)

	// --- Authenticated ---
	v1.POST("/votes", voteHandler.Create, authMW)

	// --- Admin surface (admins and moderators) ---
	admin := v1.Group("/admin", authMW, moderation)
	admin.GET("/settings", settingHandler.List)
	admin.POST("/settings", settingHandler.Create)
	admin.PUT("/settings/:id", settingHandler.Update)
	admin.DELETE("/settings/:id", settingHandler.Delete)

	admin.GET("/fields", structureHandler.ListFields)
	admin.POST("/fields", structureHandler.CreateField)
	admin.PUT("/fields/:id", structureHandler.UpdateField)
	admin.DELETE("/fields/:id", structureHandler.DeleteField)

	admin.GET("/categories", structureHandler.ListCategories)
	admin.POST("/categories", structureHandler.CreateCategory)
	admin.PUT("/categories/:id", structureHandler.UpdateCategory)
	admin.DELETE("/categories/:id", structureHandler.DeleteCategory)

	admin.GET("/feedback", feedbackHandler.List)
	admin.POST("/feedback/:id/resolve", feedbackHandler.Resolve)
	admin.DELETE("/feedback/:id", feedbackHandler.Delete)

	admin.GET("/status", adminHandler.Status)
	admin.POST("/refresh", adminHandler.Refresh)

	// --- Admin-only ---
	admin.GET("/users", adminHandler.ListUsers, adminOnly)
	admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus, adminOnly)
	admin.GET("/history", adminHandler.ListHistory, adminOnly)
	admin.DELETE("/history/:id", adminHandler.DeleteHistory, adminOnly)
	admin.GET("/votes", voteHandler.List, adminOnly)
	admin.GET("/config", adminHandler.GetConfig, adminOnly)
	admin.PUT("/config", adminHandler.UpdateConfig, adminOnly)
	admin.POST("/repair", adminHandler.Repair, adminOnly)

	return e
}
