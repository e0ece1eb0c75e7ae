// Package web serves the segment predictor form over HTTP. Every request
// builds its own form and record; only the loaded model is shared.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server holds the shared, read-only model handle.
type Server struct {
	predictor segment.Predictor
	modelPath string
	logger    *slog.Logger
}

// NewServer creates a server around a loaded model. logger may be nil.
func NewServer(p segment.Predictor, modelPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{predictor: p, modelPath: modelPath, logger: logger}
}

// Handler returns the HTTP routes. Access logs go to accessLog in common
// log format when it is non-nil.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/predict", s.handlePredictForm).Methods(http.MethodPost)
	r.HandleFunc("/api/schema", s.handleSchema).Methods(http.MethodGet)
	r.HandleFunc("/api/predict", s.handlePredictJSON).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	if accessLog != nil {
		h = handlers.LoggingHandler(accessLog, h)
	}
	return h
}

func (s *Server) requestLogger() *slog.Logger {
	return s.logger.With("request", uuid.NewString())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Query strings also carry tracking and cache-busting parameters, so
	// only field names are taken from them.
	query := r.URL.Query()
	for name := range query {
		if _, ok := record.Lookup(name); !ok {
			delete(query, name)
		}
	}

	f := record.NewForm()
	if err := applyValues(&f, query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.render(w, newPageData(f))
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f := record.NewForm()
	if err := applyValues(&f, r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := newPageData(f)
	data.Result = s.predict(f.Record())
	s.render(w, data)
}

func (s *Server) predict(rec record.Record) *pageResult {
	log := s.requestLogger()
	label, err := segment.Predict(s.predictor, rec)
	if err != nil {
		log.Warn("prediction failed", "error", err)
		return &pageResult{Err: err.Error()}
	}
	log.Info("prediction", "segment", label.String())
	return &pageResult{Label: label.String()}
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering page", "error", err)
	}
}

// applyValues writes submitted values into f. Fields that are absent keep
// their defaults; anything else is an error.
func applyValues(f *record.Form, values map[string][]string) error {
	p := make(record.Preset, len(values))
	for name, vs := range values {
		if len(vs) == 0 {
			continue
		}
		p[name] = vs[len(vs)-1]
	}
	return p.Apply(f)
}

type predictResponse struct {
	Segment *segment.Label `json:"segment,omitempty"`
	Record  record.Record  `json:"record"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decoding body: " + err.Error()})
		return
	}

	p := make(record.Preset, len(body))
	for k, v := range body {
		p[k] = fmt.Sprint(v)
	}

	f := record.NewForm()
	if err := p.Apply(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec := f.Record()
	label, err := segment.Predict(s.predictor, rec)
	if err != nil {
		s.requestLogger().Warn("prediction failed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, predictResponse{Record: rec, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Segment: &label, Record: rec})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, record.Fields())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": s.modelPath})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
