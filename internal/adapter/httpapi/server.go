package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ishaan-vashist/cosmic-event/internal/config"
	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/service"
)

// NEOService is the slice of the feed service the API exposes.
type NEOService interface {
	Feed(ctx context.Context, q service.FeedQuery) ([]domain.DateGroup, error)
	ExtendFeed(ctx context.Context, held []domain.DateGroup, q service.FeedQuery) ([]domain.DateGroup, error)
	Detail(ctx context.Context, id string, includeOrbital bool) (domain.NEO, error)
	AddFavorite(ctx context.Context, userID, neoID string) (domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, neoID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)
	IsFavorite(ctx context.Context, userID, neoID string) (bool, error)
	CheckReadiness(ctx context.Context) error
}

// SessionResolver maps bearer tokens to user ids. An empty user id means the
// token is unknown or expired.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Server exposes the aggregation API plus health, readiness, and metrics
// endpoints.
type Server struct {
	app      *fiber.App
	addr     string
	svc      NEOService
	sessions SessionResolver
	logger   *slog.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg config.ServerConfig, svc NEOService, sessions SessionResolver, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})

	s := &Server{
		app:      app,
		addr:     cfg.Addr,
		svc:      svc,
		sessions: sessions,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/readyz", s.handleReady)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")
	api.Get("/feed", s.handleFeed)
	api.Post("/feed/extend", s.handleExtendFeed)
	api.Get("/neo/:id", s.handleDetail)

	favorites := api.Group("/favorites", s.requireSession)
	favorites.Get("/", s.handleListFavorites)
	favorites.Get("/:id", s.handleFavoriteStatus)
	favorites.Post("/:id", s.handleAddFavorite)
	favorites.Delete("/:id", s.handleRemoveFavorite)
}

// Start begins listening. Returns on listener failure or after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) handleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
