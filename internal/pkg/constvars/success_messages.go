package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"

	// Booking messages
	AppointmentBookedSuccess    = "appointment booked successfully"
	AppointmentCancelledSuccess = "appointment cancelled successfully"
	AppointmentCompletedSuccess = "appointment completed successfully"
	SlotsFetchedSuccess         = "available slots fetched successfully"

	// Payment messages
	PaymentOrderCreatedSuccess   = "payment order created successfully"
	PaymentSessionCreatedSuccess = "payment session created successfully"
	PaymentVerifiedSuccess       = "payment verified successfully"

	// Rating messages
	RatingSubmittedSuccess = "rating submitted successfully"
	RatingsFetchedSuccess  = "ratings fetched successfully"

	// Doctor messages
	DoctorListFetchedSuccess      = "doctors fetched successfully"
	DoctorAvailabilityChanged     = "availability changed"
	DoctorDashboardFetchedSuccess = "dashboard data fetched successfully"
)
