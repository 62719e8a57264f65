// internal/status/server.go
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/autothread/internal/autothread"
	"github.com/user/autothread/internal/types"
)

// ClassifyFunc classifies a message the way the pipeline does, including
// retry and fallback. (*autothread.Opener).Classify satisfies it.
type ClassifyFunc func(ctx context.Context, msg *types.IncomingMessage) types.Classification

// Stats reports dispatcher load. *gateway.Queue satisfies it.
type Stats interface {
	Active() int64
}

// Server is a small HTTP handler exposing health, status and a classifier
// preview.
type Server struct {
	classify ClassifyFunc
	stats    Stats
	keyword  string
	enabled  bool
	mux      *http.ServeMux
}

// NewServer creates a status Server.
func NewServer(classify ClassifyFunc, stats Stats, enabled bool, keyword string) *Server {
	s := &Server{
		classify: classify,
		stats:    stats,
		keyword:  keyword,
		enabled:  enabled,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/classify", s.handleClassify)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusResponse struct {
	Enabled      bool   `json:"enabled"`
	TopicKeyword string `json:"topic_keyword"`
	ActiveTasks  int64  `json:"active_tasks"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Enabled: s.enabled, TopicKeyword: s.keyword}
	if s.stats != nil {
		resp.ActiveTasks = s.stats.Active()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// classifyRequest is the JSON body for POST /api/classify.
type classifyRequest struct {
	Content     string `json:"content"`
	DisplayName string `json:"display_name"`
}

type classifyResponse struct {
	types.Classification
	ThreadName string `json:"thread_name"`
	Hint       bool   `json:"hint"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if s.classify == nil {
		http.Error(w, `{"error":"classifier not configured"}`, http.StatusServiceUnavailable)
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = "anonymous"
	}

	msg := &types.IncomingMessage{
		ID:      "preview",
		Type:    types.MessageTypeDefault,
		Author:  types.Author{Username: req.DisplayName},
		Content: req.Content,
	}
	c := s.classify(r.Context(), msg)
	slog.Debug("classify preview", "title", c.ShortTitle)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(classifyResponse{
		Classification: c,
		ThreadName:     autothread.ThreadName(c.ShortTitle),
		Hint:           c.NeedsFenceHint(),
	})
}
