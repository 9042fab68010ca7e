package main

import (
	"context"

	bookingshandler "bookline/internal/bookings/handler"
	bookingsrepository "bookline/internal/bookings/repository"
	"bookline/internal/bookings/service"
	"bookline/internal/bookings/validator"
	carshandler "bookline/internal/cars/handler"
	carsrepository "bookline/internal/cars/repository"
	healthhandler "bookline/internal/health/handler"
	"bookline/pkg/app"
	"bookline/pkg/client"
	"bookline/pkg/config"
	"bookline/pkg/events"
	"bookline/pkg/jsonstore"
)

const ServiceName = "bookline"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting bookline service", "version", healthhandler.Version)

	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)

	serverApp.SetApp(
		healthhandler.NewHealthHandler(cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		carshandler.NewCarHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	var carRepo carsrepository.Repository
	var bookingRepo bookingsrepository.Repository

	switch cfg.StorageBackend {
	case config.BackendMongo:
		mongoClient := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		serverApp.AddCloser("mongo client", func() error {
			return mongoClient.Disconnect(context.Background())
		})
		carRepo = carsrepository.NewMongoRepository(mongoClient.Client, cfg.MongoDatabaseName)
		bookingRepo = bookingsrepository.NewMongoRepository(mongoClient.Client, cfg.MongoDatabaseName)

	default:
		store, err := jsonstore.New(cfg.DataFilePath, cfg.LockTimeout, cfg.LockPollInterval, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize JSON store", "path", cfg.DataFilePath, "error", err)
		}
		carRepo = carsrepository.NewFileRepository(store)
		bookingRepo = bookingsrepository.NewFileRepository(store)
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, ServiceName, cfg.Log)
		serverApp.AddCloser("event publisher", publisher.Close)
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.KafkaBookingTopic)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(carRepo, bookingRepo, bookingValidator, publisher, cfg)

	cfg.Log.Info("Booking service initialized", "storage_backend", cfg.StorageBackend)
	return bookingService
}
