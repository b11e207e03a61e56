package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/sakshamg567/blockfall/internal/api"
	"github.com/sakshamg567/blockfall/internal/config"
	"github.com/sakshamg567/blockfall/internal/hub"
	"github.com/sakshamg567/blockfall/internal/results"
	"github.com/sakshamg567/blockfall/internal/room"
	"github.com/sakshamg567/blockfall/logger"
)

func main() {
	configPath := flag.String("config", "", "optional config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}
	logger.Init("blockfall", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dirOpts []room.Option
	if cfg.Seed != 0 {
		logger.Info("seeding room randomness with %d", cfg.Seed)
		dirOpts = append(dirOpts, room.WithRandSource(room.SeededSource(cfg.Seed)))
	}

	var (
		hubOpts []hub.Option
		apiOpts = []api.Option{api.WithAdminSecret(cfg.AdminJWTSecret)}
	)
	if cfg.RedisAddr != "" {
		pool := results.NewPool(cfg.RedisAddr)
		defer pool.Close()
		pub := results.NewPublisher(pool, cfg.ResultsChannel)
		go pub.Run(ctx)
		hubOpts = append(hubOpts, hub.WithResults(pub))
		apiOpts = append(apiOpts, api.WithResults(pub))
		logger.Info("publishing match results to redis %s channel %s", cfg.RedisAddr, cfg.ResultsChannel)
	}

	h := hub.New(room.NewDirectory(dirOpts...), hubOpts...)
	go h.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.ServeWS))

	api.New(h, apiOpts...).Register(app)

	if addr := cfg.SocketIOAddr(); addr != "" {
		sio := h.NewSocketIO()
		go func() {
			if err := sio.Serve(); err != nil {
				logger.Error("socket.io serve: %v", err)
			}
		}()
		defer sio.Close()

		mux := http.NewServeMux()
		mux.Handle("/socket.io/", sio)
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("socket.io listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("socket.io listener: %v", err)
			}
		}()
		defer srv.Close()
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("shutdown: %v", err)
		}
	}()

	logger.Info("listening on %s", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Error("listen: %v", err)
	}
}
