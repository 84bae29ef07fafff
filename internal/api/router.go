package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/career-roadmap/ai-gateway/internal/logx"
)

const imageRoute = "/roadmap_images"

type RouterOptions struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	ImageDir    string
}

func NewRouter(apiHandler *APIHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(logx.HTTPMiddleware(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", apiHandler.HealthHandler)

	r.Post("/ask_ai", apiHandler.AskAIHandler)
	r.Get("/get_chat_history", apiHandler.GetChatHistoryHandler)
	r.Delete("/clear_chat_history", apiHandler.ClearChatHistoryHandler)

	r.Post("/generate_roadmap", apiHandler.GenerateRoadmapHandler)
	r.Post("/suggest_event", apiHandler.SuggestEventHandler)
	r.Post("/suggest_project", apiHandler.SuggestProjectHandler)
	r.Post("/send_notification", apiHandler.SendNotificationHandler)

	if opts.ImageDir != "" {
		files := http.StripPrefix(imageRoute+"/", http.FileServer(http.Dir(opts.ImageDir)))
		r.Get(imageRoute+"/*", noDirListing(files).ServeHTTP)
	}

	return r
}

// noDirListing serves files only; directory paths get a 404.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == imageRoute || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
