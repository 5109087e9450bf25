package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "maximum at %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of [%s]",
	"numeric":  "must be a number",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"hexadecimal": "must be a hexadecimal string",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gte":   true,
	"lte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process the request"
	ErrClientSomethingWrongWithApplication = "something is wrong with the application, please try again later"
	ErrClientServerLongRespond             = "server takes too long to respond"
	ErrClientServiceTemporarilyUnavailable = "service temporarily unavailable, please retry"
	ErrClientDoctorNotFound                = "doctor not found"
	ErrClientUserNotFound                  = "user not found"
	ErrClientAppointmentNotFound           = "appointment not found"
	ErrClientDoctorNotAvailable            = "doctor is not available"
	ErrClientSlotNotAvailable              = "time slot is not available"
	ErrClientNotAuthorized                 = "not authorized for this action"
	ErrClientAppointmentAlreadyCancelled   = "appointment already cancelled"
	ErrClientAppointmentAlreadyPaid        = "appointment already paid"
	ErrClientAppointmentAlreadyCompleted   = "appointment already completed"
	ErrClientPaymentVerificationFailed     = "payment verification failed"
	ErrClientPaymentNotCompleted           = "payment not completed"
	ErrClientInvalidRatingScore            = "rating must be between 1 and 5"
	ErrClientRatingCommentTooLong          = "comment must be at most 500 characters"
)

// Error messages for developers
const (
	ErrDevInvalidInput                 = "invalid input"
	ErrDevValidationFailed             = "failed to validate the request"
	ErrDevCannotParseJSON              = "failed to parse JSON payload"
	ErrDevCannotParseDate              = "failed to parse date value"
	ErrDevMissingRequestID             = "request id missing from context"
	ErrDevServerDeadlineExceeded       = "server deadline exceeded while processing request"
	ErrDevServerProcess                = "server failed to process the request"
	ErrDevDoctorNotExists              = "doctor document does not exist"
	ErrDevUserNotExists                = "user document does not exist"
	ErrDevAppointmentNotExists         = "appointment document does not exist"
	ErrDevDoctorUnavailableFlag        = "doctor available flag is false"
	ErrDevSlotAlreadyBooked            = "slot already present in doctor slots_booked"
	ErrDevSlotClaimConflict            = "slot claim lost the version race too many times"
	ErrDevAppointmentOwnerMismatch     = "acting user does not own the appointment"
	ErrDevAppointmentCancelledFlag     = "appointment cancelled flag already true"
	ErrDevAppointmentCompletedFlag     = "appointment isCompleted flag already true"
	ErrDevSignatureMismatch            = "computed HMAC signature does not match the supplied one"
	ErrDevRatingScoreOutOfRange        = "rating score outside [1,5]"
	ErrDevRatingCommentTooLong         = "rating comment longer than 500 characters"
	ErrDevDBFailedToFindDocument       = "failed to find document in database"
	ErrDevDBFailedToInsertDocument     = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument     = "failed to update document in database"
	ErrDevDBFailedToDeleteDocument     = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments   = "failed to iterate documents from database"
	ErrDevDBStringNotObjectID          = "provided string is not a valid ObjectID"
	ErrDevRedisGetNoData               = "failed to get data from redis with key: %s"
	ErrDevRedisSetData                 = "failed to set data to redis"
	ErrDevRedisDeleteData              = "failed to delete data from redis"
	ErrDevRedisUnlockNotOwner          = "failed to release lock: not the lock owner"
	ErrDevRabbitMQPublish              = "failed to publish message to queue: %s"
	ErrDevGatewayCreateOrder           = "payment provider failed to create order"
	ErrDevGatewayFetchOrder            = "payment provider failed to fetch order"
	ErrDevGatewayCreateSession         = "checkout provider failed to create session"
	ErrDevGatewayFetchSession          = "checkout provider failed to fetch session"
	ErrDevCannotMarshalJSON            = "failed to marshal value to JSON"
)
