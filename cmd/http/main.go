package main

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/services/core/appointments"
	"medibook-service/internal/app/services/core/calendar"
	"medibook-service/internal/app/services/core/doctors"
	"medibook-service/internal/app/services/core/payments"
	"medibook-service/internal/app/services/core/ratings"
	"medibook-service/internal/app/services/core/users"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/notifier"
	"medibook-service/internal/app/services/shared/payment_gateway"
	"medibook-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	accessLogger := logrus.New()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		zapLogger.Sugar().Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQConnection,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	bootstrapTheApp(bootstrap, accessLogger)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Sugar().Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Sugar().Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Sugar().Fatalf("Failed to close connections: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap, accessLogger *logrus.Logger) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Locker
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Payment gateways
	orderService := payment_gateway.NewOrderService(bootstrap.InternalConfig, bootstrap.Logger)
	checkoutService := payment_gateway.NewCheckoutService(bootstrap.InternalConfig, redisRepository, bootstrap.Logger)

	// Notifier
	notifierService, err := notifier.NewNotifierService(bootstrap.RabbitMQ, bootstrap.Logger)
	if err != nil {
		bootstrap.Logger.Sugar().Fatalf("Failed to open RabbitMQ channel: %v", err)
	}

	// Middlewares
	appMiddlewares := &middlewares.Middlewares{
		Log:            bootstrap.Logger,
		InternalConfig: bootstrap.InternalConfig,
	}
	bootstrap.Router.Use(appMiddlewares.RequestIDMiddleware)
	bootstrap.Router.Use(appMiddlewares.Logging(bootstrap.Logger))
	bootstrap.Router.Use(appMiddlewares.RequestLogger(bootstrap.InternalConfig.App, accessLogger))

	// Repositories
	doctorMongoRepository := doctors.NewDoctorMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	userMongoRepository := users.NewUserMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	appointmentMongoRepository := appointments.NewAppointmentMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)
	ratingMongoRepository := ratings.NewRatingMongoRepository(bootstrap.MongoClient, bootstrap.DriverConfig.MongoDB.DbName)

	// Calendar
	slotCalendar := calendar.NewSlotCalendar()

	// Reservation
	reservationUsecase := appointments.NewReservationUsecase(
		doctorMongoRepository,
		userMongoRepository,
		appointmentMongoRepository,
		slotCalendar,
		lockService,
		notifierService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	appointmentController := appointments.NewAppointmentController(bootstrap.Logger, reservationUsecase)

	// Payment
	paymentUsecase := payments.NewPaymentUsecase(
		appointmentMongoRepository,
		orderService,
		checkoutService,
		notifierService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	paymentController := payments.NewPaymentController(bootstrap.Logger, paymentUsecase)

	// Rating
	ratingUsecase := ratings.NewRatingUsecase(ratingMongoRepository, doctorMongoRepository, bootstrap.Logger)
	ratingController := ratings.NewRatingController(bootstrap.Logger, ratingUsecase)

	// Doctor
	doctorUsecase := doctors.NewDoctorUsecase(doctorMongoRepository, appointmentMongoRepository, ratingUsecase, bootstrap.Logger)
	doctorController := doctors.NewDoctorController(bootstrap.Logger, doctorUsecase, reservationUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		appMiddlewares,
		appointmentController,
		paymentController,
		ratingController,
		doctorController,
	)
}
