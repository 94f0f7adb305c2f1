package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthfirst-service/internal/app/config"
	"healthfirst-service/internal/app/delivery/http/controllers"
	"healthfirst-service/internal/app/delivery/http/middlewares"
	"healthfirst-service/internal/app/delivery/http/routers"
	"healthfirst-service/internal/app/drivers/database"
	"healthfirst-service/internal/app/drivers/logger"
	availabilitySvc "healthfirst-service/internal/app/services/core/availability"
	"healthfirst-service/internal/app/services/core/slots"
	"healthfirst-service/internal/app/services/shared/locker"
	redisRepo "healthfirst-service/internal/app/services/shared/redis"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	logrusLogger := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrusLogger.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		MongoDB:        mongoClient.Database(driverConfig.MongoDB.DbName),
		Redis:          redisClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrusLogger.Fatalf("Server failed to start: %v", err)
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrusLogger.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrusLogger.Fatalf("Error while closing application resources: %v", err)
	}

	logrusLogger.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) {
	// Redis + locker
	redisRepository := redisRepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Middlewares
	mw := &middlewares.Middlewares{
		Log:            bootstrap.Logger,
		InternalConfig: bootstrap.InternalConfig,
	}

	// Availability
	availabilityRepository := availabilitySvc.NewAvailabilityMongoRepository(
		bootstrap.MongoClient,
		bootstrap.DriverConfig.MongoDB.DbName,
	)

	// Slots
	slotRepository := slots.NewSlotMongoRepository(
		bootstrap.MongoClient,
		bootstrap.DriverConfig.MongoDB.DbName,
	)

	availabilityUsecase := availabilitySvc.NewAvailabilityUsecase(
		availabilityRepository,
		slotRepository,
		lockerService,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	availabilityController := controllers.NewAvailabilityController(availabilityUsecase, bootstrap.Logger)

	slotUsecase := slots.NewSlotUsecase(slotRepository, bootstrap.Logger)
	slotController := controllers.NewSlotController(slotUsecase, bootstrap.Logger)

	// Background maintenance worker
	worker := slots.NewWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, slotRepository)
	worker.Start(context.Background())
	bootstrap.SlotWorkerStop = worker.Stop

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, mw, availabilityController, slotController)
}
