package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/cargobooking/api"
	"github.com/Domenick1991/cargobooking/config"
	"github.com/Domenick1991/cargobooking/internal/bootstrap"
	"github.com/Domenick1991/cargobooking/internal/cache"
	"github.com/Domenick1991/cargobooking/internal/kafka"
	"github.com/Domenick1991/cargobooking/internal/repository"
	"github.com/Domenick1991/cargobooking/internal/service/booking"
	"github.com/Domenick1991/cargobooking/internal/service/capacity"
	"github.com/Domenick1991/cargobooking/internal/service/flights"
	"github.com/Domenick1991/cargobooking/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Capacity.RouteCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	reservationEngine := capacity.NewService(flightRepo, redisCache, capacity.Config{
		ThresholdMarginKg: cfg.Capacity.ThresholdMarginKg,
		LockTTL:           time.Duration(cfg.Capacity.LockTTLMs) * time.Millisecond,
		LockRetries:       cfg.Capacity.LockRetries,
		LockBackoff:       time.Duration(cfg.Capacity.LockBackoffMs) * time.Millisecond,
	})

	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewService(
		bookingRepo,
		reservationEngine,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	userService := users.NewService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	flightHandler := api.NewFlightHandler(flightService)
	bookingHandler := api.NewBookingHandler(bookingService)
	userHandler := api.NewUserHandler(userService)

	if err := bootstrap.Run(ctx, cfg, flightHandler, bookingHandler, userHandler, api.AuthRequired(userService)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
