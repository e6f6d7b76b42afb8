package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/BastovOleksandr/planetarium-service/internal/config"
	"github.com/BastovOleksandr/planetarium-service/internal/database"
	"github.com/BastovOleksandr/planetarium-service/internal/handler"
	"github.com/BastovOleksandr/planetarium-service/internal/middleware"
	"github.com/BastovOleksandr/planetarium-service/internal/queue"
	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/BastovOleksandr/planetarium-service/internal/router"
	"github.com/BastovOleksandr/planetarium-service/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database migration failed: %v", err)
	}
	cancel()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	domeRepo := repository.NewDomeRepo(db)
	themeRepo := repository.NewThemeRepo(db)
	showRepo := repository.NewShowRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(domeRepo, themeRepo, showRepo, sessionRepo)
	browseHandler := handler.NewBrowseHandler(domeRepo, themeRepo, showRepo, sessionRepo)
	reservationHandler := handler.NewReservationHandler(reservationRepo, sessionRepo)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional.  Without it the cache and rate-limit
	// middlewares are no-ops and the API still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	browseExtra := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterBrowse(e, browseHandler, cfg.JWTSecret, browseExtra...)
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret)

	// Serve uploaded show artwork.
	e.Static("/"+utils.ShowImageDir, utils.ShowImageDir)

	// Background consumer that appends committed reservations to
	// logs/reservation.log.  It reconnects on broker failures and
	// never takes the API down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
