/**
 * @description
 * Log observer daemon entry point: tails the game log, feeds it through
 * the parser registry onto the event bus, runs every domain service, and
 * serves the REST/WebSocket API over the same in-process bus — a single
 * process, since HTTP handlers rely on request/response events that only
 * work with a shared Bus instance in memory.
 *
 * @dependencies
 * - internal/config, internal/db, internal/logger
 * - internal/eventbus, internal/parsing, internal/parsing/parsers
 * - internal/services, internal/pricebook, internal/api
 * - github.com/gofiber/fiber/v2
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/oracle-observer/backend/internal/api"
	"github.com/oracle-observer/backend/internal/config"
	"github.com/oracle-observer/backend/internal/db"
	"github.com/oracle-observer/backend/internal/eventbus"
	"github.com/oracle-observer/backend/internal/events"
	"github.com/oracle-observer/backend/internal/logger"
	"github.com/oracle-observer/backend/internal/parsing"
	"github.com/oracle-observer/backend/internal/parsing/parsers"
	"github.com/oracle-observer/backend/internal/pricebook"
	"github.com/oracle-observer/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config: %v", err)
	}
	logger.Configure(cfg.Logger.Level, cfg.Logger.Components)
	log := logger.New("main")

	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("connecting to postgres: %v", err)
	}

	redisClient, redisCleanup, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("connecting to redis: %v", err)
	}
	defer redisCleanup()

	prices := pricebook.New(pgDB, cfg.PriceDB.RemoteURL, cfg.PriceDB.LocalJSONPath)
	if err := prices.Load(); err != nil {
		log.Warn("initial price book load failed: %v", err)
	}

	bus := eventbus.New()
	bus.Subscribe(eventbus.EventItemDataChanged, func(_ context.Context, evt eventbus.Event) {
		e := evt.(events.ItemDataChangedEvent)
		prices.Patch(e.ItemID, e.Price)
	})

	newBase := func(component string) services.Base { return services.NewBase(pgDB, bus, component) }

	inventorySvc := services.NewInventoryService(newBase("inventory"), time.Duration(cfg.Inventory.UpdateIntervalSeconds)*time.Second)
	mapSvc := services.NewMapService(newBase("map"), inventorySvc, prices)
	sessionSvc := services.NewSessionService(newBase("session"))
	statsSvc := services.NewStatsService(newBase("stats"), prices, 2*time.Second)
	marketSvc := services.NewMarketService(newBase("market"), inventorySvc)
	expSvc := services.NewExperienceService(newBase("experience"))
	streamSvc := services.NewEventStreamService(newBase("eventstream"), redisClient)

	container := services.NewContainer()
	container.Register(inventorySvc)
	container.Register(mapSvc)
	container.Register(sessionSvc)
	container.Register(statsSvc)
	container.Register(marketSvc)
	container.Register(expSvc)
	container.Register(streamSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.StartAll(ctx); err != nil {
		logger.Fatal("starting services: %v", err)
	}

	registry, err := parsing.NewRegistry(bus, parsers.All(), parserLogPath(cfg))
	if err != nil {
		logger.Fatal("building parser registry: %v", err)
	}
	registry.Start(ctx)

	tailer := parsing.NewTailer(cfg.Parser.LogPath, true)
	lines, tailerErrs := tailer.Lines(ctx)
	go func() {
		for line := range lines {
			registry.FeedLine(line)
		}
	}()
	go func() {
		if err, ok := <-tailerErrs; ok {
			log.Error("log tailer stopped: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{AppName: "log-observer", StrictRouting: true})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	api.SetupRoutes(app, pgDB, bus, inventorySvc, streamSvc)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Info("serving HTTP/WebSocket API on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Error("http server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	registry.Shutdown()
	container.StopAll(context.Background())
}

func parserLogPath(cfg *config.Config) string {
	if !cfg.Parser.Log {
		return ""
	}
	return "parser-events.log"
}
