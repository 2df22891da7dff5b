package viewer

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

const writeWait = 10 * time.Second

// handleGenerate upgrades to a WebSocket and streams one excavation.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	seed := time.Now().UnixNano()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = n
	}

	clientIP := realIP(r)
	if !s.limiter.TryAcquire(clientIP) {
		logger.Warning("Stream rejected: limit exceeded",
			"ip", clientIP,
			"remote_addr", r.RemoteAddr)
		http.Error(w, "Too many streams. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.limiter.Release(clientIP)
		logger.Warning("WebSocket upgrade failed", "ip", clientIP, "error", err)
		return
	}

	go func() {
		defer s.limiter.Release(clientIP)
		defer conn.Close()
		s.streamExcavation(conn, seed)
	}()
}

// streamExcavation runs one excavation and writes its frames to conn. If the
// client goes away the remaining frames are dropped but generation still
// finishes so the result can be archived.
func (s *Server) streamExcavation(conn *websocket.Conn, seed int64) {
	log := logger.With("seed", seed, "remote_addr", conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client sends nothing; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frames := make(chan Frame, max(s.cfg.Viewer.FrameBuffer, 1))
	go func() {
		defer close(frames)
		s.excavate(ctx, seed, frames)
	}()

	sent := 0
	for f := range frames {
		if ctx.Err() != nil {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(f); err != nil {
			log.Debug("Stream write failed", "error", err)
			cancel()
			continue
		}
		sent++
	}

	if ctx.Err() == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
			time.Now().Add(writeWait))
	}
	log.Info("Stream finished", "frames", sent, "disconnected", ctx.Err() != nil)
}

// excavate generates the dungeon for seed, pushing frames until ctx ends.
func (s *Server) excavate(ctx context.Context, seed int64, frames chan<- Frame) {
	send := func(f Frame) {
		select {
		case frames <- f:
		case <-ctx.Done():
		}
	}

	observer := func(ev dungeon.Event) {
		send(eventFrame(ev))
	}

	d, err := dungeon.New(s.cfg.Dungeon, dungeon.NewRand(seed), dungeon.WithObserver(observer))
	if err != nil {
		send(Frame{Kind: FrameError, Error: err.Error()})
		return
	}

	send(Frame{
		Kind:   FrameInit,
		X1:     d.Width() - 1,
		Y1:     d.Height() - 1,
		Width:  d.Width(),
		Height: d.Height(),
		Seed:   seed,
	})

	d.Excavate()

	stats := d.Stats()
	done := Frame{
		Kind:        FrameDone,
		X1:          d.Width() - 1,
		Y1:          d.Height() - 1,
		Fingerprint: dungeon.Fingerprint(d),
		Rooms:       len(d.Rooms()),
		Components:  len(dungeon.Components(d)),
		Stats:       &stats,
	}

	if s.archive != nil {
		id, err := s.archive.SaveLayout(export.FromDungeon(d, seed))
		switch {
		case err == nil, errors.Is(err, store.ErrDuplicate):
			done.ArchiveID = id
		default:
			logger.Error("Failed to archive streamed dungeon", "seed", seed, "error", err)
		}
	}

	send(done)
}
