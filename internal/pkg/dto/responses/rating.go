package responses

type RatingSummary struct {
	DoctorID      string  `json:"doctorId"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}
