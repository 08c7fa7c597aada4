package collector

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/stageshow/internal/storage"
)

const Version = "1.0.0"

// Server receives signups posted by running shows.
type Server struct {
	store     *storage.Store
	startTime time.Time
	version   string
}

func NewServer(store *storage.Store) *Server {
	return &Server{
		store:     store,
		startTime: time.Now(),
		version:   Version,
	}
}

// SetupRoutes registers the collector routes on r.
func (s *Server) SetupRoutes(r *gin.Engine) {
	r.POST("/ping", s.handlePing)

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		subs := api.Group("/submissions")
		{
			subs.GET("", s.handleListSubmissions)
			subs.GET("/:id", s.handleGetSubmission)
			subs.DELETE("", s.handlePurge)
		}
	}
}

// Engine builds a gin engine with logging, recovery and CORS, since shows
// may post from any origin.
func (s *Server) Engine() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	s.SetupRoutes(r)
	return r
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("collector listening", "addr", addr, "data", s.store.Dir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("collector stopped")
	return nil
}
