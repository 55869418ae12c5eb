package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nigerian-law-ai/internal/handlers"
	"nigerian-law-ai/internal/service"
)

// Deps holds everything the router needs. It is built once at startup.
type Deps struct {
	AskService         service.AskService
	Index              handlers.IndexStatus
	Generator          handlers.GeneratorPinger
	CORSAllowedOrigins []string
}

// NewRouter creates the HTTP router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.CORSAllowedOrigins))
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	askHandler := handlers.NewAskHandler(deps.AskService)
	streamHandler := handlers.NewStreamHandler(deps.AskService)
	healthHandler := handlers.NewHealthHandler(deps.Index, deps.Generator)

	r.Method(http.MethodPost, "/ask", streamHandler)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ask", askHandler)
			r.Method(http.MethodPost, "/ask/stream", streamHandler)
		})
	})

	return r
}
