package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"caguard/internal/guardian/handler"
	"caguard/internal/guardian/metrics"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/signature"
	"caguard/internal/guardian/store/registry"
	"caguard/internal/guardian/store/replay"
	"caguard/internal/guardian/tally"
	"caguard/internal/guardian/zklogin"
	"caguard/internal/platform/config"
	"caguard/internal/platform/postgres"
	platformredis "caguard/internal/platform/redis"
	"caguard/pkg/platform/audit"
	"caguard/pkg/platform/audit/publisher"
	"caguard/pkg/platform/audit/store/kafka"
	"caguard/pkg/platform/audit/store/memory"
	"caguard/pkg/platform/tx"
)

const (
	auditBuffer          = 1024
	auditBreakerFailures = 5
	auditBreakerCooldown = 30 * time.Second
)

// replayGuard is what every replay store backend provides.
type replayGuard interface {
	Seen(ctx context.Context, key models.Hash) (bool, error)
	Mark(ctx context.Context, key models.Hash) (bool, error)
	Consume(ctx context.Context, holder models.HolderID, nonce string) (bool, error)
}

// app is the wired service graph plus the resources it holds open.
type app struct {
	tally   handler.Tallier
	closers []func()
	// db is set when the replay store is postgres; tallies then run in one
	// transaction each.
	db *sql.DB
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build wires registries, replay stores, verifiers and the audit publisher
// from cfg. On error everything opened so far is closed.
func build(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	m := metrics.New(reg)

	guard, err := openReplayStore(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	logger.Info("replay store ready", "backend", cfg.Approval.ReplayStore)

	verifiers, err := buildVerifierRegistry(cfg.Verifiers)
	if err != nil {
		return nil, err
	}
	issuers, err := buildIssuerRegistry(cfg.ZK)
	if err != nil {
		return nil, err
	}
	circuits := registry.NewCircuitRegistry()
	for id, path := range cfg.ZK.Circuits {
		if err := circuits.LoadFile(id, path); err != nil {
			return nil, fmt.Errorf("load circuit %s: %w", id, err)
		}
	}

	sigOpts := []signature.Option{
		signature.WithLogger(logger),
		signature.WithMetrics(m),
		signature.WithLegacyDocuments(cfg.Approval.LegacyDocuments),
	}
	if cfg.Approval.ChainCheckExempt != nil {
		sigOpts = append(sigOpts, signature.WithChainCheckExempt(cfg.Approval.ChainCheckExempt...))
	}
	if cfg.Approval.ChainID != nil {
		sigOpts = append(sigOpts, signature.WithChainID(*cfg.Approval.ChainID))
	}
	sigVerifier, err := signature.New(guard, verifiers, sigOpts...)
	if err != nil {
		return nil, err
	}
	zkVerifier, err := zklogin.New(guard, issuers, issuers, circuits,
		zklogin.WithLogger(logger),
		zklogin.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}

	auditor, err := buildAuditPublisher(cfg.Kafka, logger, reg, a)
	if err != nil {
		return nil, err
	}

	defaultStrategy, err := cfg.Approval.DefaultStrategy.Compile()
	if err != nil {
		return nil, fmt.Errorf("default strategy: %w", err)
	}
	svc, err := tally.New(sigVerifier, zkVerifier,
		tally.WithDefaultStrategy(defaultStrategy),
		tally.WithAuditPublisher(auditor),
		tally.WithLogger(logger),
		tally.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}
	a.tally = svc
	if a.db != nil {
		a.tally = tally.NewAtomic(svc, tx.Runner{DB: a.db})
	}
	return a, nil
}

func openReplayStore(ctx context.Context, cfg config.Config, a *app) (replayGuard, error) {
	switch cfg.Approval.ReplayStore {
	case config.ReplayStoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return replay.NewRedisStore(client.Client), nil
	case config.ReplayStorePostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.db = db
		return ensurePostgres(ctx, db)
	default:
		return replay.NewInMemoryStore(), nil
	}
}

func ensurePostgres(ctx context.Context, db *sql.DB) (*replay.PostgresStore, error) {
	store := replay.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("replay schema: %w", err)
	}
	return store, nil
}

func buildVerifierRegistry(cfg config.VerifiersConfig) (*registry.VerifierRegistry, error) {
	servers, aliases, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r := registry.NewVerifierRegistry()
	for _, server := range servers {
		if err := r.Register(server); err != nil {
			return nil, err
		}
	}
	for from, to := range aliases {
		r.Alias(from, to)
	}
	return r, nil
}

func buildIssuerRegistry(cfg config.ZKConfig) (*registry.IssuerRegistry, error) {
	issuers, err := cfg.IssuerTypes()
	if err != nil {
		return nil, err
	}
	r := registry.NewIssuerRegistry()
	for t, issuer := range issuers {
		if err := r.SetIssuer(t, issuer); err != nil {
			return nil, err
		}
	}
	for _, k := range cfg.Keys {
		if err := r.AddKey(k.Issuer, k.Kid, k.Modulus); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildAuditPublisher(cfg config.KafkaConfig, logger *slog.Logger, reg prometheus.Registerer, a *app) (*publisher.Publisher, error) {
	var store audit.Store
	if len(cfg.Brokers) > 0 {
		ks, err := kafka.Dial(cfg.Brokers, cfg.Topic, cfg.ClientID)
		if err != nil {
			return nil, fmt.Errorf("audit kafka: %w", err)
		}
		a.closers = append(a.closers, ks.Close)
		store = ks
		logger.Info("audit events streamed to kafka", "topic", cfg.Topic)
	} else {
		store = memory.NewInMemoryStore()
	}

	p := publisher.NewPublisher(store,
		publisher.WithLogger(logger),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithCircuitBreaker(publisher.NewCircuitBreaker(auditBreakerFailures, auditBreakerCooldown)),
		publisher.WithAsyncBuffer(auditBuffer),
	)
	// Drain before the kafka client closes.
	a.closers = append(a.closers, func() { _ = p.Close() })
	return p, nil
}
