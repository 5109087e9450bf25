package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequestKey       = "request"
	LoggingResponseKey      = "response"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingUserIDKey        = "user_id"
	LoggingAppointmentIDKey = "appointment_id"
	LoggingSlotDateKey      = "slot_date"
	LoggingSlotTimeKey      = "slot_time"
	LoggingOrderIDKey       = "order_id"
	LoggingPaymentIDKey     = "payment_id"
	LoggingSessionIDKey     = "session_id"
	LoggingOutcomeKey       = "outcome"
	LoggingRaterRefKey      = "rater_ref"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingLockExpiryKey    = "lock_expiration_time"
	LoggingQueueKey         = "queue"
	LoggingAttemptKey       = "attempt"
)
