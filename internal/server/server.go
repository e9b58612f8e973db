// Package server exposes the topology view to a browser front-end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/detail"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/topology"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Refresher queues an inventory refresh.
type Refresher interface {
	Trigger()
}

// Options tunes the server.
type Options struct {
	// RefreshRate is the sustained number of manual refreshes per second.
	RefreshRate  float64
	RefreshBurst int
}

// Server serves the view over HTTP. Diagnostic launches run on the context
// passed to New, not on the request's.
type Server struct {
	ctx       context.Context
	view      *topology.View
	launcher  *diagnostics.Launcher
	refresher Refresher
	limiter   *rate.Limiter

	mu   sync.Mutex
	keys map[diagnostics.TestCommand]string
}

func New(ctx context.Context, view *topology.View, launcher *diagnostics.Launcher, refresher Refresher, opts Options) *Server {
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = 0.2
	}
	if opts.RefreshBurst <= 0 {
		opts.RefreshBurst = 1
	}
	return &Server{
		ctx:       ctx,
		view:      view,
		launcher:  launcher,
		refresher: refresher,
		limiter:   rate.NewLimiter(rate.Limit(opts.RefreshRate), opts.RefreshBurst),
		keys:      make(map[diagnostics.TestCommand]string),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(bodySizeLimitMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/topology", s.topology)
		r.Put("/filter", s.setFilter)
		r.Post("/refresh", s.refresh)
		r.Delete("/selection", s.clearSelection)
		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Get("/", s.node)
			r.Post("/diagnostics/{index}", s.launch)
		})
		r.Get("/diagnostics/{key}", s.affordance)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("Serving topology", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) topology(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.State())
}

func (s *Server) setFilter(w http.ResponseWriter, r *http.Request) {
	var f topology.Filter
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.view.SetFilter(f)
	writeJSON(w, http.StatusOK, s.view.State())
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, errRateLimited)
		return
	}
	s.refresher.Trigger()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	s.view.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// nodeResponse pairs a detail with one affordance per diagnostic entry.
// Notes have no affordance.
type nodeResponse struct {
	detail.Detail
	Affordances []*diagnostics.Affordance `json:"affordances,omitempty"`
}

func (s *Server) node(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.view.Select(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if d.NodeID == "" {
		writeError(w, errNoDetail)
		return
	}

	resp := nodeResponse{Detail: d}
	for _, cmd := range d.Diagnostics {
		if cmd.IsNote() {
			resp.Affordances = append(resp.Affordances, nil)
			continue
		}
		key, err := s.keyFor(cmd)
		if err != nil {
			writeError(w, err)
			return
		}
		a, _ := s.launcher.Get(key)
		resp.Affordances = append(resp.Affordances, &a)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) launch(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: index: %v", errBadRequest, err))
		return
	}
	d, ok, err := s.view.Describe(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, errNoDetail)
		return
	}
	// Ids are renumbered on rebuild; the caller names the node it saw.
	switch key := r.URL.Query().Get("node"); {
	case key == "":
		writeError(w, fmt.Errorf("%w: missing node key", errBadRequest))
		return
	case key != d.NodeKey:
		writeError(w, fmt.Errorf("%w: node %s is now %q", errStaleNode, d.NodeID, d.NodeKey))
		return
	}
	if index < 0 || index >= len(d.Diagnostics) {
		writeError(w, fmt.Errorf("%w: no diagnostic %d", errBadRequest, index))
		return
	}
	cmd := d.Diagnostics[index]
	if cmd.IsNote() {
		writeError(w, fmt.Errorf("%w: %q is a note", errBadRequest, cmd.Label))
		return
	}

	key, err := s.keyFor(cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := s.launcher.Start(s.ctx, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, a)
}

func (s *Server) affordance(w http.ResponseWriter, r *http.Request) {
	a, ok := s.launcher.Get(chi.URLParam(r, "key"))
	if !ok {
		writeError(w, diagnostics.ErrUnknownKey)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// keyFor returns the affordance for cmd, registering it on first use. Node
// ids change between rebuilds, so affordances are keyed by command.
func (s *Server) keyFor(cmd diagnostics.TestCommand) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key, ok := s.keys[cmd]; ok {
		return key, nil
	}
	key, err := s.launcher.Register(cmd)
	if err != nil {
		return "", err
	}
	s.keys[cmd] = key
	return key, nil
}
