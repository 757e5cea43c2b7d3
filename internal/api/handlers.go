package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler holds the API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body", "invalid_request_error"))
		return false
	}
	return true
}

// ListModels handles GET /v1/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListModels(r.Context()))
}

// ChatCompletions handles POST /v1/chat/completions.
func (h *Handler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req ChatCompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.svc.ChatCompletion(r.Context(), &req)
	if err != nil {
		writeError(w, "chat completion", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Embeddings handles POST /v1/embeddings.
func (h *Handler) Embeddings(w http.ResponseWriter, r *http.Request) {
	var req EmbeddingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.svc.Embeddings(r.Context(), &req)
	if err != nil {
		writeError(w, "embeddings", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateMemory handles POST /api/memories and POST /v1/memories.
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var req MemoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.svc.CreateMemory(r.Context(), &req)
	if err != nil {
		writeError(w, "create memory", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// ListMemories handles GET /api/memories and GET /v1/memories.
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := h.svc.ListMemories(r.Context())
	if err != nil {
		writeError(w, "list memories", err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

// GetMemory handles GET /api/memories/{id} and GET /v1/memories/{id}.
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMemory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get memory", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// UpdateMemory handles PUT /api/memories/{id}.
func (h *Handler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	var req MemoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := h.svc.UpdateMemory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, "update memory", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMemory handles DELETE /api/memories/{id} and DELETE /v1/memories/{id}.
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMemory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete memory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchMemories handles POST /api/memories/search.
func (h *Handler) SearchMemories(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	memories, err := h.svc.SearchMemories(r.Context(), &req)
	if err != nil {
		writeError(w, "search memories", err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}
