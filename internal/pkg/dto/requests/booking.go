package requests

type BookAppointmentRequest struct {
	UserID   string `json:"userId" validate:"required"`
	DoctorID string `json:"docId" validate:"required"`
	SlotDate string `json:"slotDate" validate:"required"`
	SlotTime string `json:"slotTime" validate:"required"`
}

type CancelAppointmentRequest struct {
	UserID        string `json:"userId" validate:"required"`
	AppointmentID string `json:"appointmentId" validate:"required"`
}

type DoctorAppointmentActionRequest struct {
	DoctorID      string `json:"docId" validate:"required"`
	AppointmentID string `json:"appointmentId" validate:"required"`
}
