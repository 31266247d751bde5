package main

import (
	"database/sql"
	"net/http"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/paylite/idempotent-ledger/internal/config"
	"github.com/paylite/idempotent-ledger/internal/events/kafka"
	"github.com/paylite/idempotent-ledger/internal/ledger"
	"github.com/paylite/idempotent-ledger/internal/models/events"
	"github.com/paylite/idempotent-ledger/internal/server"
	"github.com/paylite/idempotent-ledger/internal/storage/memory"
	"github.com/paylite/idempotent-ledger/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	opts := []ledger.Option{ledger.WithLogger(log)}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open postgres", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		opts = append(opts, ledger.WithArchive(postgres.NewOperationArchive(db)))
		log.Info("operation archive enabled")
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, events.TopicOperationApplied)
		defer func() { _ = publisher.Close() }()

		opts = append(opts, ledger.WithPublisher(publisher))
		log.Info("event publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	engine := ledger.NewEngine(memory.NewAccountStore(), opts...)
	srv := server.New(engine, log)

	log.Info("starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
