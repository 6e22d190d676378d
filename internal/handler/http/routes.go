package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		AllowCredentials: true,
	}))

	router.Get("/api/healthcheck", h.healthcheck)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)

		r.Get("/api/car", h.listCars)
		r.Get("/api/car/{carID}", h.getCar)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/logout", h.logout)
		r.Get("/api/user/current", h.currentUser)

		r.Get("/api/car/my-cars", h.listOwnCars)
		r.Post("/api/car/add", h.createCar)
		r.Patch("/api/car/{carID}", h.updateCar)
		r.Delete("/api/car/{carID}", h.deleteCar)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
