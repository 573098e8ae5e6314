package main

import (
	"log"

	"github.com/hotelhub/reservation-service/config"
	"github.com/hotelhub/reservation-service/internal/consumer"
	"github.com/hotelhub/reservation-service/internal/handler"
	"github.com/hotelhub/reservation-service/internal/middleware"
	"github.com/hotelhub/reservation-service/internal/repository"
	"github.com/hotelhub/reservation-service/internal/service"
	"github.com/hotelhub/reservation-service/pkg/database"
	"github.com/hotelhub/reservation-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// RabbitMQ consumer: sync rooms from the catalog service
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	roomConsumer := consumer.NewRoomConsumer(roomRepo)
	roomConsumer.Start(msgs)

	// RabbitMQ publisher: loyalty accrual on check-out
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ publisher: %v", err)
	}
	defer publisher.Close()

	// Service
	reservationSvc := service.NewReservationService(roomRepo, bookingRepo, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewBookingHandler(reservationSvc).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
