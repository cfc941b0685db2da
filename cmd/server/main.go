// Command server runs the token-name registry over HTTP. Wiring only; the
// registry semantics live under internal/registry.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tns/internal/platform/config"
	"tns/internal/platform/httpserver"
	"tns/internal/platform/logger"
	"tns/internal/platform/postgres"
	platformredis "tns/internal/platform/redis"
	"tns/internal/registry/classify"
	"tns/internal/registry/events"
	"tns/internal/registry/handler"
	"tns/internal/registry/metrics"
	"tns/internal/registry/oracle"
	"tns/internal/registry/ports"
	"tns/internal/registry/service"
	protocolstore "tns/internal/registry/store/protocol"
	symbolstore "tns/internal/registry/store/symbol"
	"tns/internal/registry/tokens"
	"tns/internal/registry/treasury"
	httpapi "tns/internal/transport/http"
	id "tns/pkg/domain"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	var symbols ports.SymbolStore
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			return err
		}
		defer db.Close()
		symbols = symbolstore.NewPostgres(db)
		log.Info("symbol store: postgres")
	} else {
		symbols = symbolstore.NewMemory()
		log.Warn("symbol store: in-memory, records will not survive a restart")
	}

	// The protocol config and reserve ledger mirror on-host state; the memory
	// store is authoritative for a single-node deployment.
	protocol := protocolstore.NewMemory()

	priceSource := oracle.NewStatic()
	if cfg.StaticNativePriceUSD > 0 {
		priceSource.SetPrice(id.FeedRef(cfg.NativeFeed), cfg.StaticNativePriceUSD, 0, time.Now())
		log.Info("development oracle seeded",
			"feed", cfg.NativeFeed,
			"price_usd", cfg.StaticNativePriceUSD,
		)
	}

	var priceOracle ports.PriceOracle = priceSource
	if cfg.RedisURL != "" {
		rdb, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			return err
		}
		defer rdb.Close()
		priceOracle = oracle.NewRedisCache(rdb, priceSource)
		log.Info("oracle cache: redis")
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, events.WithTopic(cfg.EventTopic))
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			return err
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("event publisher: kafka", "topic", cfg.EventTopic)
	} else {
		publisher = events.NewLogPublisher(log)
		log.Info("event publisher: log")
	}

	reg := metrics.New()
	directory := tokens.NewDirectory()
	pools := tokens.NewPoolBook()
	ledger := treasury.NewMemoryLedger()

	svc, err := service.New(
		symbols,
		protocol,
		classify.New(),
		priceOracle,
		pools,
		ledger,
		directory,
		service.WithLogger(log),
		service.WithMetrics(reg),
		service.WithEventPublisher(publisher),
	)
	if err != nil {
		log.Error("service construction failed", "error", err)
		return err
	}

	router := httpapi.NewRouter(log, handler.New(svc, log), handler.NewAdmin(svc, log), cfg.AdminToken)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("registry server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		return err
	}
	return nil
}
