// Package web serves the task list as a JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/nibzard/tasktracker/internal/task"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Dispatcher applies commands to the shared task list.
// *controller.Controller satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd task.Command) (task.Store, error)
	Snapshot(ctx context.Context) (task.Store, error)
}

// Server is the HTTP API server.
type Server struct {
	d          Dispatcher
	categories []task.Category
	logger     *log.Logger
	router     *gin.Engine
}

// NewServer creates a server. categories are the names add requests are
// matched against.
func NewServer(d Dispatcher, categories []task.Category, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(categories) == 0 {
		categories = task.Categories()
	}

	router := gin.New()
	s := &Server{
		d:          d,
		categories: categories,
		logger:     logger,
		router:     router,
	}

	router.Use(gin.Recovery(), requestID(), s.logRequests())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleList)
		api.POST("/tasks", s.handleAdd)
		api.POST("/tasks/move", s.handleMove)
		api.POST("/tasks/:id/toggle", s.handleToggle)
		api.DELETE("/tasks/:id", s.handleDelete)
		api.GET("/stats", s.handleStats)
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}
