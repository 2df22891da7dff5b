// Package viewer serves archived dungeons over HTTP and streams live
// excavations to browsers over WebSocket.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeonbuilder/internal/config"
	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
	"github.com/lawnchairsociety/dungeonbuilder/internal/render"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Archive is the subset of the layout store used by the viewer.
type Archive interface {
	SaveLayout(l *export.Layout) (int64, error)
	GetLayout(id int64) (*export.Layout, error)
	ListLayouts(limit int) ([]store.Summary, error)
}

// Server is the viewer HTTP server. A nil archive disables the /dungeons
// routes and stream archiving.
type Server struct {
	cfg      *config.AppConfig
	archive  Archive
	limiter  *ConnLimiter
	upgrader websocket.Upgrader
}

// NewServer creates a viewer for cfg.
func NewServer(cfg *config.AppConfig, archive Archive) *Server {
	s := &Server{
		cfg:     cfg,
		archive: archive,
		limiter: NewConnLimiter(cfg.Viewer.MaxPerIP, cfg.Viewer.MaxTotal),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Viewer.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Stream rejected: origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Limiter exposes the stream limiter.
func (s *Server) Limiter() *ConnLimiter { return s.limiter }

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws/generate", s.handleGenerate)

	r.Route("/dungeons", func(r chi.Router) {
		r.Get("/", s.handleListDungeons)
		r.Get("/{id}", s.handleGetDungeon)
		r.Get("/{id}/png", s.handleDungeonPNG)
		r.Get("/{id}/text", s.handleDungeonText)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Viewer.Listen,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Viewer listening", "addr", s.cfg.Viewer.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Viewer shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListDungeons(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		respondError(w, http.StatusNotFound, "archive is not enabled")
		return
	}

	summaries, err := s.archive.ListLayouts(s.cfg.Viewer.ListLimit)
	if err != nil {
		logger.Error("Failed to list dungeons", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list dungeons")
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetDungeon(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}

	data, err := export.Encode(layout)
	if err != nil {
		logger.Error("Failed to encode dungeon", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to encode dungeon")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDungeonPNG(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}
	grid, err := layout.Grid()
	if err != nil {
		logger.Error("Archived dungeon is corrupt", "id", chi.URLParam(r, "id"), "error", err)
		respondError(w, http.StatusInternalServerError, "Archived dungeon is corrupt")
		return
	}

	scale := s.cfg.Render.Scale
	if raw := r.URL.Query().Get("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 32 {
			respondError(w, http.StatusBadRequest, "scale must be between 1 and 32")
			return
		}
		scale = n
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, grid, scale); err != nil {
		logger.Error("Failed to write PNG", "error", err)
	}
}

func (s *Server) handleDungeonText(w http.ResponseWriter, r *http.Request) {
	layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}
	grid, err := layout.Grid()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Archived dungeon is corrupt")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Text(grid)))
}

// loadLayout resolves the {id} URL parameter, writing the error response
// itself when it returns false.
func (s *Server) loadLayout(w http.ResponseWriter, r *http.Request) (*export.Layout, bool) {
	if s.archive == nil {
		respondError(w, http.StatusNotFound, "archive is not enabled")
		return nil, false
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid dungeon ID")
		return nil, false
	}

	layout, err := s.archive.GetLayout(id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dungeon not found")
		return nil, false
	}
	if err != nil {
		logger.Error("Failed to load dungeon", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load dungeon")
		return nil, false
	}
	return layout, true
}

// requestLogger logs each request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
