package stream

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vick25/ceedd-stream-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	tokenFetcher := TokenInfo{}

	// Public read surface
	r.Get("/zones", ListZones)
	r.Get("/zones/{id}", GetZone)
	r.Get("/funders", ListFunders)
	r.Get("/funders/{id}", GetFunder)
	r.Get("/infrastructure-types", ListInfrastructureTypes)
	r.Get("/infrastructure-types/{id}", GetInfrastructureType)
	r.Get("/clients", ListClients)
	r.Get("/clients/{id}", GetClient)
	r.Get("/infrastructures", ListInfrastructures)
	r.Get("/infrastructures/volume", VolumeHandler)
	r.Get("/infrastructures/volume_by_date", VolumeByDateHandler)
	r.Get("/infrastructures/{id}", GetInfrastructure)
	r.Get("/fundings", ListFundings)
	r.Get("/fundings/{id}", GetFunding)
	r.Get("/inspections", ListInspections)
	r.Get("/inspections/{id}", GetInspection)
	r.Get("/photos", ListPhotos)
	r.Get("/photos/by_object", PhotosByObject)
	r.Get("/photos/{id}", GetPhoto)

	// Writes require a bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerMiddleware(tokenFetcher))
		r.Use(middleware.RateLimitMiddleware(10, 20))

		r.Post("/zones", CreateZone)
		r.Put("/zones/{id}", UpdateZone)
		r.Delete("/zones/{id}", DeleteZone)

		r.Post("/funders", CreateFunder)
		r.Put("/funders/{id}", UpdateFunder)
		r.Delete("/funders/{id}", DeleteFunder)

		r.Post("/infrastructure-types", CreateInfrastructureType)
		r.Put("/infrastructure-types/{id}", UpdateInfrastructureType)
		r.Delete("/infrastructure-types/{id}", DeleteInfrastructureType)

		r.Post("/clients", CreateClient)
		r.Put("/clients/{id}", UpdateClient)
		r.Delete("/clients/{id}", DeleteClient)

		r.Post("/infrastructures", CreateInfrastructure)
		r.Put("/infrastructures/{id}", UpdateInfrastructure)
		r.Delete("/infrastructures/{id}", DeleteInfrastructure)

		r.Post("/fundings", CreateFunding)
		r.Put("/fundings/{id}", UpdateFunding)
		r.Delete("/fundings/{id}", DeleteFunding)

		r.Post("/inspections", CreateInspection)
		r.Put("/inspections/{id}", UpdateInspection)
		r.Delete("/inspections/{id}", DeleteInspection)

		r.Post("/photos", CreatePhoto)
		r.Put("/photos/{id}", UpdatePhoto)
		r.Delete("/photos/{id}", DeletePhoto)
	})

	return r
}
