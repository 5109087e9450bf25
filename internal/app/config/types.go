package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Logger   Logger
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	InternalConfig struct {
		App             App
		OrderGateway    OrderGateway
		CheckoutGateway CheckoutGateway
		RabbitMQ        AppRabbitMQ
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Address                    string
		Timezone                   string
		EndpointPrefix             string
		MaxRequests                int
		ShutdownTimeout            int
		MaxTimeRequestsPerSeconds  int
		RequestBodyLimitInMegabyte int
		DoctorLockTTLInSeconds     int
		SlotClaimMaxRetries        int
	}

	// OrderGateway is the server-to-server order provider (order + signature flow).
	OrderGateway struct {
		BaseUrl              string
		KeyID                string
		KeySecret            string
		Currency             string
		RequestsPerSecond    int
		RequestTimeoutInSecs int
	}

	// CheckoutGateway is the hosted checkout provider (session flow).
	CheckoutGateway struct {
		BaseUrl              string
		SecretKey            string
		Currency             string
		RequestsPerSecond    int
		RequestTimeoutInSecs int
	}

	AppRabbitMQ struct {
		BookingQueue string
		PaymentQueue string
	}
)
