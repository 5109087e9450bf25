package config

import (
	"medibook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", "customRedisPass"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Jakarta"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeout:            utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			DoctorLockTTLInSeconds:     utils.GetEnvInt("APP_DOCTOR_LOCK_TTL_IN_SECONDS", 5),
			SlotClaimMaxRetries:        utils.GetEnvInt("APP_SLOT_CLAIM_MAX_RETRIES", 3),
		},
		OrderGateway: OrderGateway{
			BaseUrl:              utils.GetEnvString("ORDER_GATEWAY_BASE_URL", "https://api.razorpay.com/v1"),
			KeyID:                utils.GetEnvString("ORDER_GATEWAY_KEY_ID", ""),
			KeySecret:            utils.GetEnvString("ORDER_GATEWAY_KEY_SECRET", ""),
			Currency:             utils.GetEnvString("ORDER_GATEWAY_CURRENCY", "INR"),
			RequestsPerSecond:    utils.GetEnvInt("ORDER_GATEWAY_REQUESTS_PER_SECOND", 10),
			RequestTimeoutInSecs: utils.GetEnvInt("ORDER_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		CheckoutGateway: CheckoutGateway{
			BaseUrl:              utils.GetEnvString("CHECKOUT_GATEWAY_BASE_URL", "https://api.stripe.com/v1"),
			SecretKey:            utils.GetEnvString("CHECKOUT_GATEWAY_SECRET_KEY", ""),
			Currency:             utils.GetEnvString("CHECKOUT_GATEWAY_CURRENCY", "usd"),
			RequestsPerSecond:    utils.GetEnvInt("CHECKOUT_GATEWAY_REQUESTS_PER_SECOND", 10),
			RequestTimeoutInSecs: utils.GetEnvInt("CHECKOUT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		RabbitMQ: AppRabbitMQ{
			BookingQueue: utils.GetEnvString("APP_RABBITMQ_BOOKING_QUEUE", "medibook.booking"),
			PaymentQueue: utils.GetEnvString("APP_RABBITMQ_PAYMENT_QUEUE", "medibook.payment"),
		},
	}
}
