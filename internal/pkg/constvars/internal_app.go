package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDBK_SVC_"
)

const (
	MongoCollectionDoctors      = "doctors"
	MongoCollectionUsers        = "users"
	MongoCollectionAppointments = "appointments"
	MongoCollectionRatings      = "ratings"
)

// Booking rules inherited from the clinic front desk: doors open at 10:00,
// last slot starts before 21:00, slots are 30 minutes apart and today's first
// slot keeps at least an hour of advance notice.
const (
	BookingWindowDays      = 7
	BookingOpeningHour     = 10
	BookingClosingHour     = 21
	BookingSlotStepMinutes = 30
)

// Wire formats shared with the front end. SlotDateKeyFormat is NOT a time
// layout: day, month and year are printed without leading zeros and joined by
// underscores (e.g. "5_3_2026"). SlotTimeLayout renders "10:30 AM".
const (
	SlotTimeLayout = "03:04 PM"
)

const (
	RaterKindUser  = "user"
	RaterKindSelf  = "doctor"
	RaterKindAdmin = "admin"
)

const (
	RatingScoreMin       = 1
	RatingScoreMax       = 5
	RatingCommentMaxSize = 500
)
