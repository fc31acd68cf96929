package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/config"
	"github.com/Manoj5621/Fashion-virtual/internal/middleware"
	"github.com/Manoj5621/Fashion-virtual/internal/provider"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
	"github.com/Manoj5621/Fashion-virtual/internal/service"
	"github.com/Manoj5621/Fashion-virtual/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	tryon    *service.TryOnService
	gallery  *service.GalleryService
	auth     *service.AuthService
	store    storage.Store
	db       *pgxpool.Pool
	cache    *redis.Client
	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	store storage.Store,
	generator provider.Generator,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tryonRepo := repository.NewTryOnRepository(db)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		tryon:    service.NewTryOnService(generator, tryonRepo, store, log),
		gallery:  service.NewGalleryService(userRepo, tryonRepo, cfg.HTTP.BaseURL, log),
		auth:     service.NewAuthService(userRepo, sessionRepo, cfg, log),
		store:    store,
		db:       db,
		cache:    cache,
		users:    userRepo,
		sessions: sessionRepo,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	// Core surface: public, username-keyed.
	engine.POST("/try-on", middleware.RateLimit(h.cache, h.cfg.RateLimit, h.log), h.TryOn)
	engine.GET("/gallery", h.Gallery)
	engine.GET("/download/*filepath", h.Download)
	engine.GET("/uploads/*filepath", h.ServeUpload)

	api := engine.Group("/api")
	api.GET("/healthz", h.Health)

	auth := api.Group("/v1/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	protected := api.Group("/v1/auth")
	protected.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	protected.GET("/me", h.Me)
}
