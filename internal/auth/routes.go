package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vick25/ceedd-stream-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	tokenFetcher := TokenInfo{}

	r.Post("/register", RegisterHandler)
	r.Post("/token", TokenHandler)
	r.Post("/token/refresh", RefreshHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerMiddleware(tokenFetcher))
		r.Get("/me", MeHandler)
	})

	return r
}
