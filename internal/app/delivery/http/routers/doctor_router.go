package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/services/core/doctors"

	"github.com/go-chi/chi/v5"
)

func attachDoctorRoutes(router chi.Router, middlewares *middlewares.Middlewares, doctorController *doctors.DoctorController) {
	router.Get("/", doctorController.List)
	router.Post("/{doctorID}/availability", doctorController.ChangeAvailability)
	router.Get("/{doctorID}/dashboard", doctorController.Dashboard)
	router.Post("/appointments/complete", doctorController.CompleteAppointment)
	router.Post("/appointments/cancel", doctorController.CancelAppointment)
}
