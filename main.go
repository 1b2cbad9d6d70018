package main

import (
	"log"
	"time"

	"github.com/hostelops/reservation-service/config"
	"github.com/hostelops/reservation-service/internal/handler"
	"github.com/hostelops/reservation-service/internal/middleware"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/internal/service"
	"github.com/hostelops/reservation-service/pkg/cache"
	"github.com/hostelops/reservation-service/pkg/database"
	"github.com/hostelops/reservation-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	}

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if redisClient == nil && cfg.RedisAddr != "" {
		log.Println("redis unreachable, room cache disabled")
	}
	roomCache := cache.NewRoomCache(redisClient, 5*time.Minute)

	// Repositories
	reservationRepo := repository.NewReservationRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	clientRepo := repository.NewClientRepository(db)

	// Services
	reservationSvc := service.NewReservationService(reservationRepo, roomRepo, clientRepo, publisher)
	roomSvc := service.NewRoomService(roomRepo, reservationRepo, roomCache)
	occupancySvc := service.NewOccupancyService(reservationRepo, roomRepo)

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
	e.Use(middleware.Identity(cfg.JWTSecret))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e.Group("/api/v1/reservations"))
	handler.NewRoomHandler(roomSvc).RegisterRoutes(e.Group("/api/v1/rooms"))
	handler.NewClientHandler(clientRepo).RegisterRoutes(e.Group("/api/v1/clients"))
	handler.NewOccupancyHandler(occupancySvc).RegisterRoutes(
		e.Group("/api/v1/occupancy"),
		e.Group("/api/v1/dashboard"),
	)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
