package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the OpenAI-compatible /v1 surface
// and the native /api memory surface mounted. sseHandler, if non-nil,
// is mounted at GET /api/events.
func NewRouter(svc *Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(CORSMiddleware)

	// OpenAI-compatible surface.
	r.Route("/v1", func(r chi.Router) {
		r.Get("/models", h.ListModels)
		r.Post("/chat/completions", h.ChatCompletions)
		r.Post("/embeddings", h.Embeddings)

		r.Get("/memories", h.ListMemories)
		r.Post("/memories", h.CreateMemory)
		r.Get("/memories/{id}", h.GetMemory)
		r.Delete("/memories/{id}", h.DeleteMemory)
	})

	// Native memory surface.
	r.Route("/api", func(r chi.Router) {
		r.Get("/memories", h.ListMemories)
		r.Post("/memories", h.CreateMemory)
		r.Post("/memories/search", h.SearchMemories)
		r.Get("/memories/{id}", h.GetMemory)
		r.Put("/memories/{id}", h.UpdateMemory)
		r.Delete("/memories/{id}", h.DeleteMemory)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
