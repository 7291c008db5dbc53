package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// queryTool - часть agent.Tool, нужная HTTP слою.
type queryTool interface {
	Invoke(ctx context.Context, in agent.Input) any
	GetThreadID(refresh bool) agent.ThreadID
}

type queryResponse struct {
	Result     any    `json:"result"`
	ThreadID   string `json:"thread_id"`
	DurationMs int64  `json:"duration_ms"`
}

type Handler struct {
	tool    queryTool
	timeout time.Duration
}

func NewHandler(tool queryTool, timeout time.Duration) *Handler {
	return &Handler{tool: tool, timeout: timeout}
}

// maxQueryBody - предел тела POST /v1/query.
const maxQueryBody = 1 << 20

// RegisterRoutes вешает маршруты на корневой router (без Subrouter,
// иначе неверный метод даёт 404). Ошибки маршрутизации тоже JSON.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/v1/query", h.Query).Methods(http.MethodPost)
	router.HandleFunc("/v1/thread", h.Thread).Methods(http.MethodGet)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var in agent.Input
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		utils.Warn("Failed to decode query request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(in.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	format, err := agent.ParseResponseFormat(string(in.ResponseFormat))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ResponseFormat = format

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	utils.Info("Query received", "format", format, "query", utils.Truncate(in.Query, 120))
	out := h.tool.Invoke(ctx, in)
	elapsed := time.Since(start)
	utils.Info("Query completed", "duration", elapsed)

	writeJSON(w, http.StatusOK, queryResponse{
		Result:     out,
		ThreadID:   string(h.tool.GetThreadID(false)),
		DurationMs: elapsed.Milliseconds(),
	})
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	writeJSON(w, http.StatusOK, map[string]string{
		"thread_id": string(h.tool.GetThreadID(refresh)),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
