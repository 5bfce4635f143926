// Package server exposes a scene controller over HTTP.
//
// The API is a thin JSON layer: each route calls one controller operation
// and returns the resulting [scene.State]. Rejections map to status codes
// (403 for operations the current mode does not permit, 404 or 400 for bad
// indices, 422 for content that failed to load).
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/scene"
	"github.com/epit3d/spycer/pkg/slicer"
)

// Config wires a server to a controller.
type Config struct {
	Controller *scene.Controller
	// Recorder is the adapter behind Controller; /api/scene.svg renders it.
	Recorder *render.Recorder
	Logger   *log.Logger

	// Slicer enables POST /api/slice when set.
	Slicer  *slicer.Runner
	Params  map[string]string
	Command string
}

// Server serves the control API.
type Server struct {
	ctrl    *scene.Controller
	rec     *render.Recorder
	logger  *log.Logger
	slicer  *slicer.Runner
	params  map[string]string
	command string
	router  chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		ctrl:    cfg.Controller,
		rec:     cfg.Recorder,
		logger:  logger,
		slicer:  cfg.Slicer,
		params:  cfg.Params,
		command: cfg.Command,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/permitted/{op}", s.handlePermitted)
		r.Get("/modes.dot", s.handleModes)

		r.Post("/model", s.handleLoadModel)
		r.Post("/model/color", s.handleRecolor)
		r.Post("/gcode", s.handleLoadGcode)
		r.Get("/gcode", s.handleExport)
		r.Post("/slice", s.handleSlice)

		r.Post("/scrub", s.handleScrub)
		r.Post("/switch", s.handleSwitch)
		r.Post("/move/toggle", s.handleMoveToggle)
		r.Post("/move", s.handleMove)

		r.Route("/figures", func(r chi.Router) {
			r.Post("/", s.handleAddFigure)
			r.Put("/", s.handleResetFigures)
			r.Post("/hidden", s.handleHidden)
			r.Put("/{index}", s.handleUpdateFigure)
			r.Delete("/{index}", s.handleRemoveFigure)
			r.Post("/{index}/select", s.handleSelectFigure)
		})

		r.Get("/scene.svg", s.handleSVG)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
