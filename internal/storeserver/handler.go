package storeserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Actions understood by the store. A body without an action lists.
const (
	actionAdd    = "add"
	actionDelete = "delete"
	actionUpdate = "update"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// requestIDHeader is echoed back so client and server logs line up.
const requestIDHeader = "X-Request-Id"

var (
	errMissingTask     = errors.New("missing task")
	errMissingComplete = errors.New("missing complete")
)

// complete accepts the text "true"/"false" and, leniently, a JSON boolean.
type complete struct {
	value string
	set   bool
}

func (c *complete) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		c.value, c.set = string(data), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	c.value, c.set = s, true
	return nil
}

type request struct {
	Task     *string  `json:"task"`
	Complete complete `json:"complete"`
	Action   *string  `json:"action"`
}

// Response is the reply to every successful request.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Items      []Item `json:"items"`
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Server serves a Store over HTTP.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// New creates a server for store. A nil logger discards.
func New(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, logger: logger}
}

// Router returns the HTTP routes: POST / for the action endpoint and
// GET /health.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleAction).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(s.cors)
	r.Use(s.logRequests)
	return r
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	req, err := decodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.apply(req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{StatusCode: http.StatusOK, Items: s.store.Items()})
}

// decodeRequest reads one JSON object. An empty body is a list request.
func decodeRequest(body io.Reader) (request, error) {
	var req request
	err := json.NewDecoder(body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return request{}, nil
	}
	if err != nil {
		return request{}, fmt.Errorf("invalid body: %w", err)
	}
	return req, nil
}

// apply performs the mutation named by req.Action, if any.
func (s *Server) apply(req request) error {
	if req.Action == nil {
		return nil
	}
	if req.Task == nil {
		return errMissingTask
	}
	task := *req.Task

	switch *req.Action {
	case actionDelete:
		s.store.Delete(task)
		s.logger.Info("deleted task", "task", task)
	case actionAdd:
		if !req.Complete.set {
			return errMissingComplete
		}
		s.store.Put(task, req.Complete.value)
		s.logger.Info("added task", "task", task)
	case actionUpdate:
		if !req.Complete.set {
			return errMissingComplete
		}
		s.store.Update(task, req.Complete.value)
		s.logger.Info("updated task", "task", task, "complete", req.Complete.value)
	default:
		return fmt.Errorf("unknown action %q", *req.Action)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("rejected request", "error", err, "request_id", r.Header.Get(requestIDHeader))
	writeJSON(w, http.StatusBadRequest, errorResponse{StatusCode: http.StatusBadRequest, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors lets browser clients on other origins call the store.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id != "" {
			w.Header().Set(requestIDHeader, id)
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", id,
			"duration", time.Since(start),
		)
	})
}
