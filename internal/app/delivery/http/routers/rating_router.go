package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/services/core/ratings"

	"github.com/go-chi/chi/v5"
)

func attachRatingRoutes(router chi.Router, middlewares *middlewares.Middlewares, ratingController *ratings.RatingController) {
	router.Post("/", ratingController.Submit)
	router.Get("/doctor/{doctorID}", ratingController.ListByDoctor)
	router.Get("/doctor/{doctorID}/summary", ratingController.Summary)
}
