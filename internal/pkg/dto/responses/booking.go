package responses

import (
	"medibook-service/internal/app/models"
	"time"
)

// CandidateSlot is one bookable unit in the calendar grid. DateKey and Time
// are the exact wire strings the reservation flow expects back.
type CandidateSlot struct {
	DateTime  time.Time `json:"datetime"`
	DateKey   string    `json:"slotDate"`
	Time      string    `json:"time"`
	Available bool      `json:"available"`
}

// DaySlots is the grid for one calendar day of the booking window.
type DaySlots struct {
	DateKey string          `json:"slotDate"`
	Slots   []CandidateSlot `json:"slots"`
}

type DoctorWithRating struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Speciality    string  `json:"speciality"`
	Degree        string  `json:"degree"`
	Experience    string  `json:"experience"`
	About         string  `json:"about"`
	Fees          float64 `json:"fees"`
	Available     bool    `json:"available"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

type DoctorDashboard struct {
	Earnings           float64       `json:"earnings"`
	Appointments       int           `json:"appointments"`
	Patients           int           `json:"patients"`
	AverageRating      float64       `json:"averageRating"`
	TotalRatings       int           `json:"totalRatings"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}
