package bootstrap

import (
	"context"
	"fmt"

	"github.com/paklog/inventory-ledger/internal/adapters/mongodb"
	"github.com/paklog/inventory-ledger/internal/adapters/postgres"
	"github.com/paklog/inventory-ledger/internal/adapters/rabbitmq"
	"github.com/paklog/inventory-ledger/internal/adapters/redis"
	"github.com/paklog/inventory-ledger/internal/services/command"
	"github.com/paklog/inventory-ledger/internal/services/fulfillment"
	"github.com/paklog/inventory-ledger/internal/services/ingest"
	"github.com/paklog/inventory-ledger/internal/services/outboxpublisher"
	"github.com/paklog/inventory-ledger/internal/services/query"
	"github.com/paklog/inventory-ledger/internal/services/replay"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// App holds every wired component the entrypoint needs to start and stop.
type App struct {
	Config *Config
	Log    mlog.Logger

	MongoConn *mongodb.Connection
	PgConn    *postgres.Connection
	Cache     *redis.Cache
	RabbitMQ  *rabbitmq.Connection

	Command     *command.Service
	Query       *query.Service
	Fulfillment *fulfillment.Service
	Ingest      *ingest.Handler

	Publisher *outboxpublisher.Publisher
	Scheduler *replay.Scheduler
	Replay    *replay.Service
	Consumer  *rabbitmq.Consumer
}

// New wires every adapter and service from cfg. It does not dial any
// downstream store; connections are established lazily on first use (each
// adapter's own GetPool/GetDB/GetChannel), matching the teacher's
// lazy-connect Connection pattern.
func New(cfg *Config) (*App, error) {
	logger, err := mlog.NewZapLogger(cfg.EnvName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: init logger: %w", err)
	}

	mongoConn := mongodb.NewConnection(cfg.MongoURI, cfg.MongoDB, logger)
	pgConn := postgres.NewConnection(cfg.PostgresDSN, logger)
	cache := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	rabbitConn := rabbitmq.NewConnection(cfg.RabbitMQURL, logger)
	producer := rabbitmq.NewProducer(rabbitConn)
	deadLetter := rabbitmq.NewDeadLetterSink(producer, cfg.RabbitMQDeadLetterExchange)

	ledgerRepo := postgres.NewLedgerRepository(pgConn)
	stockRepo := mongodb.NewProductStockRepository(mongoConn, ledgerRepo, logger)
	outboxRepo := mongodb.NewOutboxRepository(mongoConn)
	snapshotRepo := mongodb.NewSnapshotRepository(mongoConn)
	skuLister := mongodb.NewSKULister(mongoConn)
	transferRepo := mongodb.NewTransferRepository(mongoConn)
	serialRepo := mongodb.NewSerialNumberRepository(mongoConn)
	containerRepo := mongodb.NewContainerRepository(mongoConn)
	assemblyRepo := mongodb.NewAssemblyOrderRepository(mongoConn)

	cmdSvc := command.New(stockRepo, cache, cfg.commandRetryConfig(), logger.With("component", "command"))
	querySvc := query.New(stockRepo, skuLister, ledgerRepo, cache, logger.With("component", "query"))
	fulfillmentSvc := fulfillment.New(transferRepo, serialRepo, containerRepo, assemblyRepo, cmdSvc, producer, cfg.RabbitMQExchange, cfg.OutboxRoutingPrefix, logger.With("component", "fulfillment"))
	ingestHandler := ingest.New(cmdSvc, deadLetter, logger.With("component", "ingest"))

	publisher := outboxpublisher.New(outboxRepo, producer, cfg.outboxConfig(), logger.With("component", "outbox-publisher"))

	scheduler, err := replay.NewScheduler(cfg.schedulerConfig(), skuLister, stockRepo, snapshotRepo, logger.With("component", "snapshot-scheduler"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: init snapshot scheduler: %w", err)
	}

	replaySvc := replay.NewService(snapshotRepo, outboxRepo, logger.With("component", "replay"))

	consumer := rabbitmq.NewConsumer(rabbitConn, cfg.RabbitMQQueue, ingestHandler, logger.With("component", "consumer"))

	return &App{
		Config:      cfg,
		Log:         logger,
		MongoConn:   mongoConn,
		PgConn:      pgConn,
		Cache:       cache,
		RabbitMQ:    rabbitConn,
		Command:     cmdSvc,
		Query:       querySvc,
		Fulfillment: fulfillmentSvc,
		Ingest:      ingestHandler,
		Publisher:   publisher,
		Scheduler:   scheduler,
		Replay:      replaySvc,
		Consumer:    consumer,
	}, nil
}

// Close releases every lazily-established connection. Safe to call even if
// some connections were never dialed.
func (a *App) Close(ctx context.Context) {
	if err := a.MongoConn.Disconnect(ctx); err != nil {
		a.Log.Warnf("bootstrap: mongo disconnect: %v", err)
	}

	a.PgConn.Close()

	if err := a.Cache.Close(); err != nil {
		a.Log.Warnf("bootstrap: redis close: %v", err)
	}

	if err := a.RabbitMQ.Close(); err != nil {
		a.Log.Warnf("bootstrap: rabbitmq close: %v", err)
	}

	_ = a.Log.Sync()
}
