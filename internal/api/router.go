package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/collabworks/portal-api/internal/api/handler"
	"github.com/collabworks/portal-api/internal/api/middleware"
	"github.com/collabworks/portal-api/internal/core/ports"
	"github.com/collabworks/portal-api/internal/core/service"
	mongodb "github.com/collabworks/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/collabworks/portal-api/internal/infrastructure/db/redis"
)

// RouterConfig bundles the router's external dependencies. The activity
// emitter is passed in rather than built here so main owns its worker
// lifecycle.
type RouterConfig struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Emitter   ports.ActivityEmitter
	JWTSecret string
	InviteTTL time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Repositories ---
	memberRepo := mongodb.NewMembershipRepository(cfg.DB)
	inviteRepo := mongodb.NewInvitationRepository(cfg.DB)
	linkRepo := mongodb.NewInviteLinkRepository(cfg.DB)
	activityRepo := mongodb.NewActivityRepository(cfg.DB)
	documentRepo := mongodb.NewDocumentRepository(cfg.DB)
	authRepo := mongodb.NewAuthRepository(cfg.DB)
	permCache := redisdb.NewPermissionCache(cfg.Redis)

	// --- Services ---
	permService := service.NewPermissionService(memberRepo, permCache, cfg.Log)
	memberService := service.NewMemberService(memberRepo, permService, cfg.Emitter, cfg.Log)
	inviteService := service.NewInvitationService(inviteRepo, memberRepo, cfg.Emitter, cfg.InviteTTL, cfg.Log)
	linkService := service.NewInviteLinkService(linkRepo, memberRepo, cfg.Emitter, cfg.Log)
	activityService := service.NewActivityService(activityRepo, cfg.Log)
	documentService := service.NewDocumentService(documentRepo, cfg.Emitter, cfg.Log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService)
	inviteHandler := handler.NewInvitationHandler(inviteService)
	linkHandler := handler.NewLinkHandler(linkService)
	activityHandler := handler.NewActivityHandler(activityService)
	documentHandler := handler.NewDocumentHandler(documentService)

	// --- Health probes and operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	// Token redemption and bootstrap live outside the project-permission
	// middleware: their callers are not project members yet.
	v1.POST("/projects/:project_id/owner", memberHandler.Bootstrap)
	v1.POST("/invitations/:token/accept", inviteHandler.Accept)
	v1.POST("/invitations/:token/decline", inviteHandler.Decline)
	v1.GET("/links/:token", linkHandler.Preview)
	v1.POST("/links/:token/accept", linkHandler.Accept)

	// Everything project-scoped resolves the caller's permission set first
	// and rejects non-members.
	project := v1.Group("/projects/:project_id", middleware.Project(permService))

	project.GET("/permissions", memberHandler.Permissions)
	project.GET("/members", memberHandler.List)
	project.PUT("/members/:user_id/role", memberHandler.ChangeRole)
	project.PUT("/members/:user_id/group", memberHandler.ChangeGroup)
	project.DELETE("/members/:user_id", memberHandler.Remove)

	project.POST("/invitations", inviteHandler.Create)
	project.GET("/invitations", inviteHandler.List)
	project.DELETE("/invitations/:id", inviteHandler.Cancel)

	project.POST("/links", linkHandler.Generate)
	project.GET("/links", linkHandler.List)
	project.DELETE("/links/:id", linkHandler.Revoke)

	project.POST("/documents", documentHandler.Create)
	project.GET("/documents", documentHandler.List)
	project.PUT("/documents/:id/visibility", documentHandler.SetVisibility)

	project.GET("/activity", activityHandler.Log)

	return e
}
