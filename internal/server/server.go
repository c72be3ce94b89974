package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/session"
	"github.com/FACorreiaa/estate-templui/internal/pkg/config"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	redis  *redis.Client
	stores session.StoreFactory
	router http.Handler
}

// New creates a new Server instance with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	stores, err := s.setupSessionStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to setup session store: %w", err)
	}
	s.stores = stores

	return s, nil
}

// setupSessionStore picks where the token and user slots of each browser live
func (s *Server) setupSessionStore(ctx context.Context) (session.StoreFactory, error) {
	switch s.cfg.Session.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", s.cfg.Redis.Addr, err)
		}
		s.redis = client
		s.logger.Info("Connected to Redis",
			zap.String("addr", s.cfg.Redis.Addr),
			zap.Int("db", s.cfg.Redis.DB))
		return session.RedisStores(storage.NewRedis(client, s.cfg.Redis.Prefix, s.cfg.Redis.TTL)), nil

	case config.StoreMemory:
		s.logger.Warn("Sessions are kept in process memory and are lost on restart")
		return session.MemoryStores(storage.NewMemory(s.cfg.Redis.TTL)), nil

	default:
		return session.CookieStores(), nil
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Stores returns the session store factory picked by SESSION_STORE
func (s *Server) Stores() session.StoreFactory {
	return s.stores
}

// Close closes all server resources
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}
