package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"cyberquest/internal/arena"
	"cyberquest/internal/config"
	"cyberquest/internal/db"
	"cyberquest/internal/logger"
	"cyberquest/internal/results"
	"cyberquest/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		deps      server.Deps
		recorders results.Multi
		sinks     []*results.Async
	)

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL, db.PoolOptions{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		store := results.NewMatchStore(conn)
		history := results.NewAsync("postgres", store, cfg.ResultsBuffer)
		deps.Matches = store
		recorders = append(recorders, history)
		sinks = append(sinks, history)
	} else {
		log.Warn().Msg("DATABASE_URL is not set, match history disabled")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed, leaderboard may be stale")
		}
		cancel()
		board := results.NewLeaderboard(client)
		ranked := results.NewAsync("redis", board, cfg.ResultsBuffer)
		deps.Leaderboard = board
		recorders = append(recorders, ranked)
		sinks = append(sinks, ranked)
	} else {
		log.Warn().Msg("REDIS_ADDR is not set, leaderboard disabled")
	}

	if len(recorders) > 0 {
		deps.Recorder = recorders
	}

	loop := arena.NewLoop(1024)
	srv := server.New(cfg, loop, deps)

	sinkCtx, stopSinks := context.WithCancel(context.Background())
	sinksDone := make(chan struct{})
	go func() {
		defer close(sinksDone)
		done := make(chan struct{}, len(sinks))
		for _, sink := range sinks {
			go func() {
				sink.Run(sinkCtx)
				done <- struct{}{}
			}()
		}
		for range sinks {
			<-done
		}
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("arena loop stopped")
		}
	}()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("arena server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	<-loopDone
	stopSinks()
	<-sinksDone
}
