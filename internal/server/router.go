package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisstore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"clientdesk/internal/config"
	"clientdesk/internal/database"
	"clientdesk/internal/handlers"
	"clientdesk/internal/middleware"
	"clientdesk/internal/models"
	"clientdesk/internal/repository"
	"clientdesk/internal/services"
	"clientdesk/internal/storage"
	"clientdesk/internal/validation"
)

func NewRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	store, err := sessionStore(cfg)
	if err != nil {
		return nil, err
	}
	r.Use(sessions.Sessions("clientdesk_session", store))
	r.Use(middleware.InjectUser(db))

	blobs, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	v := validation.New(db)
	audit := database.NewAuditor(db)
	attachments := services.NewAttachmentService(db, blobs, "local", cfg.AttachmentsStrict)

	authHandler := handlers.NewAuthHandler(db)
	clientHandler := handlers.NewClientHandler(repository.NewClientRepository(db), v, audit)
	projectHandler := handlers.NewProjectHandler(repository.NewProjectRepository(db), v, attachments, audit)
	dashboardHandler := handlers.NewDashboardHandler(db)
	auditHandler := handlers.NewAuditHandler(db)

	// AUTH
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", dashboardHandler.Summary)

	// CLIENTS
	manageClients := middleware.RequirePermission(models.PermManageClients)
	auth.GET("/clients", manageClients, clientHandler.List)
	auth.POST("/clients", manageClients, clientHandler.Create)
	auth.GET("/clients/:id", manageClients, clientHandler.Show)
	auth.PUT("/clients/:id", manageClients, clientHandler.Update)
	auth.DELETE("/clients/:id", manageClients, clientHandler.Delete)
	auth.GET("/clients/:id/projects", manageClients, clientHandler.Projects)

	// PROJECTS need only a session; the repository scopes reads and
	// gates writes per caller
	auth.GET("/projects", projectHandler.List)
	auth.POST("/projects", projectHandler.Create)
	auth.GET("/projects/:id", projectHandler.Show)
	auth.PUT("/projects/:id", projectHandler.Update)
	auth.DELETE("/projects/:id", projectHandler.Delete)

	// AUDIT
	auth.GET("/audit",
		middleware.RequirePermission(models.PermManageUsers),
		auditHandler.List,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r, nil
}

func sessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisAddr != "" {
		return redisstore.NewStore(10, "tcp", cfg.RedisAddr, "", []byte(cfg.SessionSecret))
	}
	return cookie.NewStore([]byte(cfg.SessionSecret)), nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
