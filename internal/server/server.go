package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/receipt-chef/backend/config"
	"github.com/pageza/receipt-chef/backend/internal/api"
	"github.com/pageza/receipt-chef/backend/internal/database"
	"github.com/pageza/receipt-chef/backend/internal/middleware"
	"github.com/pageza/receipt-chef/backend/internal/router"
	"github.com/pageza/receipt-chef/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	redis  *redis.Client
	// background work to drain on shutdown; may be nil
	pending interface{ Wait() }
}

// New wires the upstream clients, handlers and middleware described by cfg
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var archive service.IReceiptArchive
	if a := service.NewS3ReceiptArchive(s3Config); a != nil {
		log.Printf("Archiving receipts to s3://%s", s3Config.BucketName)
		archive = a
	}

	receiptService := service.NewReceiptService(
		service.NewOCRService(cfg, nil),
		service.NewLLMService(cfg, nil),
		archive,
	)
	recipeService := service.NewRecipeService(cfg, nil)

	opts := router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
	}

	var redisClient *redis.Client
	if cfg.RateLimitPerMinute > 0 {
		if cfg.RedisURL != "" {
			redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			opts.Limiter = middleware.NewPerMinuteRateLimiter(redisClient, cfg.RateLimitPerMinute)
		} else {
			opts.Limiter = middleware.NewIPRateLimiter(cfg.RateLimitPerMinute)
		}
	}

	engine := router.SetupRouter(
		api.NewReceiptHandler(receiptService),
		api.NewRecipeHandler(recipeService),
		opts,
	)

	srv := NewWithRouter(cfg, engine, redisClient)
	srv.pending = receiptService
	return srv, nil
}

// NewWithRouter creates a server around an already configured router
func NewWithRouter(cfg *config.Config, engine *gin.Engine, redisClient *redis.Client) *Server {
	return &Server{
		router: engine,
		redis:  redisClient,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waits for background archive
// uploads and releases the Redis connection
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	if s.pending != nil {
		drained := make(chan struct{})
		go func() {
			s.pending.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-ctx.Done():
			log.Printf("Shutdown timed out waiting for receipt archive uploads")
			if err == nil {
				err = ctx.Err()
			}
		}
	}

	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
