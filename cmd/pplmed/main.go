// Command pplmed is pplme's daemon: it loads configuration, builds the
// matching Engine, bulk-loads people from CSV or PostgreSQL, and
// serves matching requests over TCP and admin requests over HTTP
// until signaled to shut down.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/shiva/pplme/config"
	"github.com/shiva/pplme/internal/csvsource"
	"github.com/shiva/pplme/internal/engine"
	"github.com/shiva/pplme/internal/httpapi"
	"github.com/shiva/pplme/internal/netserver"
	"github.com/shiva/pplme/internal/source"
	"github.com/shiva/pplme/internal/wire"
	"github.com/shiva/pplme/pkg/cache"
	"github.com/shiva/pplme/pkg/db"
	"github.com/shiva/pplme/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	e, err := engine.Build(engine.Config{
		Resolution:         cfg.Engine.Resolution,
		MaxAgeDifference:   cfg.Engine.MaxAgeDifference,
		ResultCap:          cfg.Engine.ResultCap,
		PerFindConcurrency: cfg.Engine.PerFindConcurrency,
		TodayFn:            func() time.Time { return time.Now() },
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}
	defer e.Close()

	var pgPool *pgxpool.Pool
	if cfg.Source.Kind == "postgres" {
		pgPool, err = db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pgPool.Close()
	}

	if err := populate(ctx, cfg, pgPool, e); err != nil {
		log.Fatal().Err(err).Msg("failed to populate engine")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	var matchCache *cache.MatchCache
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; FindMatching result cache disabled")
	} else {
		defer redisClient.Close()
		matchCache = cache.NewMatchCache(redisClient)
	}

	tcpServer := netserver.NewServer(requestHandler(e, matchCache))
	if err := tcpServer.Start(cfg.Server.TCPAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to start matching server")
	}
	defer tcpServer.Shutdown()

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Dependencies{Postgres: pgPool, Redis: redisClient}),
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("admin http surface listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("admin http surface stopped unexpectedly")
		}
	}()

	log.Info().Str("tcp_addr", tcpServer.Addr().String()).Msg("pplmed up and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	log.Info().Msg("shutdown complete")
}

func populate(ctx context.Context, cfg *config.Config, pgPool *pgxpool.Pool, e *engine.Engine) error {
	switch cfg.Source.Kind {
	case "postgres":
		_, err := source.PopulateFromPostgres(ctx, pgPool, e)
		return err
	default:
		if cfg.Source.CSVPath == "" {
			log.Warn().Msg("no source configured; starting with an empty grid")
			return nil
		}
		_, err := csvsource.Populate(cfg.Source.CSVPath, e)
		return err
	}
}

// requestHandler adapts the Engine's FindMatching operation to the
// netserver transport: decode a wire.FindRequest, run the query
// (serving a cached result when available), encode a
// wire.FindResponse.
func requestHandler(e *engine.Engine, matchCache *cache.MatchCache) netserver.RequestHandler {
	return func(peer net.Addr, request []byte) ([]byte, error) {
		req, err := wire.UnmarshalFindRequest(request)
		if err != nil {
			metrics.RequestsTotal.WithLabelValues("malformed").Inc()
			return nil, err
		}

		ctx := context.Background()
		if matchCache != nil {
			if cached, found, err := matchCache.Get(ctx, req.Origin, int(req.Age)); err == nil && found {
				metrics.MatchCacheLookups.WithLabelValues("hit").Inc()
				metrics.RequestsTotal.WithLabelValues("ok").Inc()
				return wire.MarshalFindResponse(wire.FindResponse{Ppl: cached}), nil
			}
			metrics.MatchCacheLookups.WithLabelValues("miss").Inc()
		}

		start := time.Now()
		people := e.FindMatching(req.Origin, int(req.Age))
		metrics.FindMatchingDuration.Observe(time.Since(start).Seconds())

		if matchCache != nil {
			_ = matchCache.Set(ctx, req.Origin, int(req.Age), people)
		}

		metrics.RequestsTotal.WithLabelValues("ok").Inc()
		return wire.MarshalFindResponse(wire.FindResponse{Ppl: people}), nil
	}
}
