// Command server runs the housing allocation API.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/poros-events/housing/internal/config"
	"github.com/poros-events/housing/internal/database"
	"github.com/poros-events/housing/internal/handler"
	"github.com/poros-events/housing/internal/housing"
	"github.com/poros-events/housing/internal/middleware"
	"github.com/poros-events/housing/internal/queue"
	"github.com/poros-events/housing/internal/repository"
	"github.com/poros-events/housing/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it rate limiting and the browse cache
	// degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	buildings := repository.NewBuildingRepo(db)
	rooms := repository.NewRoomRepo(db)
	groups := repository.NewGroupRepo(db)
	beds := repository.NewBedAssignmentRepo(db)

	engine := housing.NewEngine(repository.NewAllocationRepo(db))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminH := handler.NewAdminHandler(events, buildings, rooms, groups, beds)
	allocH := handler.NewAllocationHandler(engine, groups)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	browseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, browseCache)
	router.RegisterAllocation(e, allocH, cfg.JWTSecret)

	// Background consumer writing allocation audit lines; runs its own
	// reconnect loop for the life of the process.
	go func() {
		if err := queue.StartAllocationConsumer(); err != nil {
			log.Printf("allocation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
