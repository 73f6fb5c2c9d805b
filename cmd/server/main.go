package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gobwas/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JCaesar45/Chart-the-Stock-Market/internal/api"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/feed"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/gateway"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/hub"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/mirror"
	"github.com/JCaesar45/Chart-the-Stock-Market/internal/store"
	"github.com/JCaesar45/Chart-the-Stock-Market/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.App.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Seed the default instruments before accepting any connection.
	st := store.New(logger, feed.NewRand(), time.Now, cfg.Store.HistoryDays)
	st.Seed(cfg.Store.SeedSymbols)

	sinks := buildSinks(cfg, logger)
	hubSinks := make([]hub.TickSink, len(sinks))
	for i, s := range sinks {
		hubSinks[i] = s
	}
	wsHub := hub.NewHub(st, logger, hubSinks...)

	// Both feed loops run for the life of the process, stopped only by the
	// shutdown context.
	feedCtx, stopFeed := context.WithCancel(context.Background())
	ticker := feed.NewTicker(wsHub, st, logger, feed.NewRand(), feed.RealClock{}, cfg.Feed.TickInterval)
	churn := feed.NewChurn(wsHub, st, logger, feed.NewRand(), feed.RealClock{}, cfg.Feed.ChurnInterval, feed.DefaultCandidates)
	go ticker.Run(feedCtx)
	go churn.Run(feedCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}

		client := gateway.NewClient(conn, wsHub, logger)
		client.Start()
	})
	api.NewHandler(st, logger, cfg.App.CORSOrigin).Register(mux)

	srv := &http.Server{Addr: cfg.App.Port, Handler: mux}

	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	stopFeed()
	srv.Shutdown(context.Background())
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			logger.Error("Error closing sink", zap.Error(err))
		}
	}
	logger.Info("Shutdown Complete")
}

func buildSinks(cfg *config.Config, logger *zap.Logger) []mirror.Sink {
	var sinks []mirror.Sink

	if cfg.Mirror.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Mirror.Redis.Addr,
			Password: cfg.Mirror.Redis.Password,
			DB:       cfg.Mirror.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sinks = append(sinks, mirror.NewRedisSink(rdb, cfg.Mirror.Redis.TTL))
		logger.Info("Redis tick mirror enabled", zap.String("addr", cfg.Mirror.Redis.Addr))
	}

	if cfg.Mirror.Kafka.Enabled {
		writer := mirror.NewKafkaWriter(cfg.Mirror.Kafka.Brokers, cfg.Mirror.Kafka.Topic)
		sinks = append(sinks, mirror.NewKafkaSink(writer))
		logger.Info("Kafka tick mirror enabled", zap.Strings("brokers", cfg.Mirror.Kafka.Brokers))
	}

	return sinks
}
