package shapefile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vick25/ceedd-stream-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	tokenFetcher := TokenInfo{}

	r.Get("/", ListHandler)
	r.Get("/{id}", GetHandler)
	r.Get("/{id}/export", ExportHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerMiddleware(tokenFetcher))
		r.Use(middleware.RateLimitMiddleware(2, 5))

		r.Post("/", UploadHandler)
		r.Put("/{id}", UpdateHandler)
		r.Delete("/{id}", DeleteHandler)
	})

	return r
}
