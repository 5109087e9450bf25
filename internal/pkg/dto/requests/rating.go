package requests

type SubmitRatingRequest struct {
	DoctorID  string `json:"docId" validate:"required"`
	RaterID   string `json:"raterId"`
	RaterKind string `json:"ratedBy" validate:"required,oneof=user doctor admin"`
	Score     int    `json:"rating" validate:"required"`
	Comment   string `json:"comment"`
}
