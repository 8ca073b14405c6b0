// Package devapi is a local stand-in for the subcontractor backend. It keeps
// accounts in memory and applies the same field rules as the signup wizard.
package devapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/subsportal/internal/auth"
	"github.com/jask/subsportal/internal/signup"
)

// BasePath is where the endpoints are mounted.
const BasePath = "/api/subcontractors"

const defaultTTL = 24 * time.Hour

// Server wires the gin engine for the stub backend.
type Server struct {
	store  *Store
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithStore(st *Store) Option {
	return func(s *Server) { s.store = st }
}

// New builds a server. The gin mode is left to the caller. The built-in administrator account is registered so
// the remote login path accepts the same pair as the static one.
func New(opts ...Option) *Server {
	s := &Server{
		store:  NewStore(),
		secret: []byte("subsportal-dev-secret"),
		ttl:    defaultTTL,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	_, _ = s.store.Create(signup.Payload{
		FullName: "Admin",
		Email:    auth.StaticEmail,
		Password: auth.StaticPassword,
	})

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	NewHandler(s.store, s.secret, s.ttl, s.log).RegisterRoutes(r.Group(BasePath))
	s.engine = r
	return s
}

// Handler exposes the engine for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Store returns the account store.
func (s *Server) Store() *Store { return s.store }

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.Duration("elapsed", time.Since(start)))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	s.log.Info("devapi listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("devapi shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
