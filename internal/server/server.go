// Package server exposes a registry store over HTTP. It is the local
// stand-in for the platform API: flows travel as JSON documents, traces as
// XML documents, and composite flows can be fetched as rendered SVG.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/registry"
	"github.com/maxcopeland/openml-go/pkg/render"
	"github.com/maxcopeland/openml-go/pkg/trace"
)

// Server routes registry requests to a backing store.
type Server struct {
	store  registry.Store
	logger *log.Logger
}

// New creates a server over the given store. A nil logger uses the default.
func New(store registry.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, logger: logger}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/flows", func(r chi.Router) {
		r.Get("/", s.handleListFlows)
		r.Post("/", s.handlePutFlow)
		r.Get("/{id}", s.handleGetFlow)
		r.Delete("/{id}", s.handleDeleteFlow)
		r.Get("/{id}/svg", s.handleFlowSVG)
	})

	r.Route("/traces", func(r chi.Router) {
		r.Post("/", s.handlePutTrace)
		r.Get("/{runID}", s.handleGetTrace)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFlows(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListFlows(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []registry.FlowSummary{}
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handlePutFlow(w http.ResponseWriter, r *http.Request) {
	f, err := flow.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFlow, err, "cannot parse flow document"))
		return
	}
	id, err := s.store.PutFlow(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("stored flow", "id", id, "name", f.Name)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.GetFlow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := flow.WriteJSON(f, w); err != nil {
		s.logger.Error("write flow", "err", err)
	}
}

func (s *Server) handleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteFlow(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFlowSVG(w http.ResponseWriter, r *http.Request) {
	f, err := s.store.GetFlow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	svg, err := render.RenderSVG(render.ToDOT(f, render.Options{Detailed: detailed}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handlePutTrace(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		s.writeError(w, err)
		return
	}
	t, err := parseUploadedTrace(buf.Bytes())
	if err != nil {
		s.writeError(w, err)
		return
	}
	runID, err := s.store.PutTrace(r.Context(), t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("stored trace", "run_id", runID, "iterations", t.Len())
	s.writeJSON(w, http.StatusCreated, map[string]int64{"run_id": runID})
}

// parseUploadedTrace accepts either interchange form: the XML document or
// the tabular ARFF relation. Tabular uploads carry no run id and get one
// assigned by the store.
func parseUploadedTrace(data []byte) (*trace.Trace, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return trace.ReadXML(bytes.NewReader(trimmed))
	}
	return trace.ReadARFF(bytes.NewReader(trimmed))
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	runID, err := strconv.ParseInt(chi.URLParam(r, "runID"), 10, 64)
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeMalformedTrace, "run id must be an integer"))
		return
	}
	t, err := s.store.GetTrace(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	if err := trace.WriteXML(t, w); err != nil {
		s.logger.Error("write trace", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidFlow, errors.ErrCodeMalformedTrace, errors.ErrCodeInvalidKey:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
