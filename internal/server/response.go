package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/topology"
	"github.com/charmbracelet/log"
)

var (
	errBadRequest  = errors.New("bad request")
	errRateLimited = errors.New("refresh rate limit exceeded")
	errNoDetail    = errors.New("node has no detail")
	errStaleNode   = errors.New("node id refers to another node")
)

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, topology.ErrUnknownNode),
		errors.Is(err, diagnostics.ErrUnknownKey):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, diagnostics.ErrNotEnabled),
		errors.Is(err, errStaleNode):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, errNoDetail):
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	case errors.Is(err, errRateLimited):
		status = http.StatusTooManyRequests
		msg = err.Error()
	default:
		log.Error("Internal error", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: msg})
}
