// Package api is the HTTP boundary: it maps JSON requests onto the
// hierarchy store's operations and renders results and error kinds as
// JSON responses. Path strings are validated here, before anything
// touches the remote store.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tlesnik44-code/origocode/internal/domain"
	"github.com/tlesnik44-code/origocode/internal/hierarchy"
	"github.com/tlesnik44-code/origocode/internal/history"
	"github.com/tlesnik44-code/origocode/internal/logger"
	"github.com/tlesnik44-code/origocode/internal/metrics"
	"github.com/tlesnik44-code/origocode/internal/vpath"
)

// maxBodySize bounds request bodies; content is text, not blobs.
const maxBodySize = 16 << 20

// Server is the HTTP server over a hierarchy store.
type Server struct {
	files   *hierarchy.Store
	history *history.Store // optional, nil when disabled
	log     logger.Logger
}

// NewServer creates a server. history may be nil.
func NewServer(files *hierarchy.Store, hist *history.Store) *Server {
	return &Server{
		files:   files,
		history: hist,
		log:     logger.With("component", "api"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, metrics.Middleware(pattern, s.logged(h)))
	}

	route("POST /v1/projects/{project}/list", s.handleList)
	route("POST /v1/projects/{project}/read", s.handleRead)
	route("POST /v1/projects/{project}/save", s.handleSave)
	route("POST /v1/projects/{project}/append", s.handleAppend)
	route("POST /v1/projects/{project}/remove", s.handleRemove)
	route("POST /v1/projects/{project}/rename", s.handleRename)
	route("POST /v1/projects/{project}/move", s.handleMove)
	route("POST /v1/projects/{project}/mkdir", s.handleMkdir)
	route("GET /v1/projects/{project}/history", s.handleHistory)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}

// logged wraps a handler with request logging.
func (s *Server) logged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.log.Debug("request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode parses the JSON request body into dst.
func decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidPath, err)
	}
	return nil
}

// errorResponse renders an error kind as a JSON response. Validation
// failures are client errors; not-found is a normal structured outcome
// on read-oriented paths; remote faults surface as bad gateway.
type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func statusFor(err error) (httpStatus int, opStatus string) {
	switch {
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrInvalidProjectName):
		return http.StatusBadRequest, history.StatusInvalid
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, history.StatusNotFound
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway, history.StatusError
	default:
		return http.StatusInternalServerError, history.StatusError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, _ := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("operation failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// record persists the operation outcome and bumps the metrics counter.
func (s *Server) record(op, project, path string, start time.Time, err error) {
	opStatus := history.StatusOK
	errText := ""
	if err != nil {
		_, opStatus = statusFor(err)
		errText = err.Error()
	}
	metrics.ObserveOperation(op, opStatus)

	if s.history == nil {
		return
	}
	rec := history.OperationRecord{
		Op:         op,
		Project:    project,
		Path:       path,
		Status:     opStatus,
		Error:      errText,
		DurationMS: time.Since(start).Milliseconds(),
		StartedAt:  start,
	}
	if recErr := s.history.RecordOperation(rec); recErr != nil {
		s.log.Warn("failed to record operation history", "error", recErr)
	}
}

type listRequest struct {
	Path string `json:"path"`
}

type listResponse struct {
	OK      bool           `json:"ok"`
	Path    string         `json:"path"`
	Folders []domain.Entry `json:"folders"`
	Files   []domain.Entry `json:"files"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req listRequest
	if err := decode(r, &req); err != nil {
		s.record("list", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("list", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	listing, err := s.files.List(r.Context(), project, p)
	s.record("list", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		OK:      true,
		Path:    listing.Path,
		Folders: emptyIfNil(listing.Folders),
		Files:   emptyIfNil(listing.Files),
	})
}

// emptyIfNil keeps JSON arrays as [] instead of null.
func emptyIfNil(entries []domain.Entry) []domain.Entry {
	if entries == nil {
		return []domain.Entry{}
	}
	return entries
}

type readRequest struct {
	Path string `json:"path"`
}

type readResponse struct {
	Found   bool   `json:"found"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req readRequest
	if err := decode(r, &req); err != nil {
		s.record("read", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("read", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	result, err := s.files.Read(r.Context(), project, p)
	s.record("read", project, req.Path, start, err)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, readResponse{Found: false, Error: "not found"})
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	metrics.AddContentRead(len(result.Content))
	writeJSON(w, http.StatusOK, readResponse{
		Found:   true,
		Name:    result.Name,
		Content: result.Content,
		ID:      result.FileID,
	})
}

type saveRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type saveResponse struct {
	OK      bool   `json:"ok"`
	Created bool   `json:"created"`
	ID      string `json:"id"`
	WebURL  string `json:"webUrl,omitempty"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req saveRequest
	if err := decode(r, &req); err != nil {
		s.record("save", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("save", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	result, err := s.files.Save(r.Context(), project, p, req.Content)
	s.record("save", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	metrics.AddContentWritten(len(req.Content))
	writeJSON(w, http.StatusOK, saveResponse{
		OK:      true,
		Created: result.Created,
		ID:      result.FileID,
		WebURL:  result.WebViewLink,
	})
}

type appendRequest struct {
	Path    string `json:"path"`
	Text    string `json:"text"`
	Newline *bool  `json:"newline"` // default true
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req appendRequest
	if err := decode(r, &req); err != nil {
		s.record("append", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("append", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	newline := true
	if req.Newline != nil {
		newline = *req.Newline
	}

	result, err := s.files.Append(r.Context(), project, p, req.Text, newline)
	s.record("append", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	metrics.AddContentWritten(len(req.Text))
	writeJSON(w, http.StatusOK, saveResponse{
		OK:      true,
		Created: result.Created,
		ID:      result.FileID,
		WebURL:  result.WebViewLink,
	})
}

type removeRequest struct {
	Path string `json:"path"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req removeRequest
	if err := decode(r, &req); err != nil {
		s.record("remove", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("remove", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	err = s.files.Remove(r.Context(), project, p)
	s.record("remove", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

type renameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"newName"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req renameRequest
	if err := decode(r, &req); err != nil {
		s.record("rename", project, "", start, err)
		s.fail(w, err)
		return
	}

	// The new name is a plain leaf, never a path.
	if err := vpath.ValidateLeafName(req.NewName); err != nil {
		s.record("rename", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("rename", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	_, err = s.files.Rename(r.Context(), project, p, req.NewName)
	s.record("rename", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

type moveRequest struct {
	Path          string `json:"path"`
	Dest          string `json:"dest"`
	CreateParents *bool  `json:"createParents"` // default true
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.record("move", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("move", project, req.Path, start, err)
		s.fail(w, err)
		return
	}
	dest, err := vpath.Resolve(req.Dest)
	if err != nil {
		s.record("move", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	createParents := true
	if req.CreateParents != nil {
		createParents = *req.CreateParents
	}

	err = s.files.Move(r.Context(), project, p, dest, createParents)
	s.record("move", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

type mkdirRequest struct {
	Path string `json:"path"`
}

type mkdirResponse struct {
	OK       bool   `json:"ok"`
	FolderID string `json:"folderId"`
}

func (s *Server) handleMkdir(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	project := r.PathValue("project")

	var req mkdirRequest
	if err := decode(r, &req); err != nil {
		s.record("mkdir", project, "", start, err)
		s.fail(w, err)
		return
	}

	p, err := vpath.Resolve(req.Path)
	if err != nil {
		s.record("mkdir", project, req.Path, start, err)
		s.fail(w, err)
		return
	}

	folderID, err := s.files.Mkdir(r.Context(), project, p)
	s.record("mkdir", project, req.Path, start, err)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mkdirResponse{OK: true, FolderID: folderID})
}

type historyResponse struct {
	OK         bool                      `json:"ok"`
	Operations []history.OperationRecord `json:"operations"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")

	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "history is not enabled"})
		return
	}
	if err := vpath.ValidateProjectName(project); err != nil {
		s.fail(w, err)
		return
	}

	records, err := s.history.Recent(project, 100)
	if err != nil {
		s.fail(w, err)
		return
	}
	if records == nil {
		records = []history.OperationRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{OK: true, Operations: records})
}
