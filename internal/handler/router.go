package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig — параметры HTTP-маршрутизатора
type RouterConfig struct {
	CORSOrigin     string
	RequestTimeout time.Duration
}

// NewRouter собирает chi-маршрутизатор API
func NewRouter(
	cfg RouterConfig,
	authHandler *AuthHandler,
	postHandler *PostHandler,
	authn Authenticator,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigin))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	requireAuth := RequireAuth(authn, logger)

	r.Get("/health", Health(logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/current-user", authHandler.CurrentUser)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.CreatePost)
			r.Put("/{id}", postHandler.UpdatePost)
			r.Delete("/{id}", postHandler.DeletePost)
			r.Put("/{id}/like", postHandler.ToggleLike)
			r.Post("/{id}/comment", postHandler.AddComment)
		})
	})

	return r
}
