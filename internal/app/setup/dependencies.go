package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-affiliate-service/internal/config"
	"github.com/LavaJover/shvark-affiliate-service/internal/delivery/httpapi"
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/cache"
	publisher "github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.AffiliateConfig
	Policy       domain.CommissionPolicy
	DB           *gorm.DB
	Redis        *redis.Client
	Publisher    domain.PublisherPort
	Registry     *prometheus.Registry
	Metrics      *metrics.AffiliateMetrics
	Repositories *Repositories

	closers []func() error
}

type Repositories struct {
	AffiliateRepo    domain.AffiliateRepository
	LeadRepo         domain.LeadRepository
	CommissionRepo   domain.CommissionRepository
	RateSettingsRepo domain.RateSettingsRepository
	Transactor       domain.Transactor
	RateCache        domain.RateSettingsCache
}

func InitializeDependencies(ctx context.Context, cfg *config.AffiliateConfig) (*Dependencies, error) {
	policy, err := cfg.Commission.Policy()
	if err != nil {
		return nil, fmt.Errorf("commission policy: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Policy:   policy,
		Registry: registry,
		Metrics:  metrics.NewAffiliateMetrics(registry),
	}

	if err := deps.initStorage(); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.initRedis(ctx); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.initPublisher(); err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

func (d *Dependencies) initStorage() error {
	switch d.Config.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		d.Repositories = &Repositories{
			AffiliateRepo:    store,
			LeadRepo:         store,
			CommissionRepo:   store,
			RateSettingsRepo: store,
			Transactor:       store,
		}
		slog.Warn("using in-memory storage, data is lost on restart")
		return nil
	case config.StorageDriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", d.Config.Storage.Driver)
	}

	db := postgres.MustInitDB(d.Config)
	d.DB = db
	d.closers = append(d.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if _, err := migrate.RunMigrations(db, d.Config.AffiliateDB.MigrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	d.Repositories = &Repositories{
		AffiliateRepo:    repository.NewDefaultAffiliateRepository(db),
		LeadRepo:         repository.NewDefaultLeadRepository(db),
		CommissionRepo:   repository.NewDefaultCommissionRepository(db),
		RateSettingsRepo: repository.NewDefaultRateSettingsRepository(db),
		Transactor:       postgres.NewGormTransactor(db),
	}
	return nil
}

func (d *Dependencies) initRedis(ctx context.Context) error {
	if !d.Config.RedisCache.Enabled {
		return nil
	}
	rdb, err := cache.ConnectRedis(ctx, cache.RedisConfig{
		Addr:     d.Config.RedisCache.Addr,
		Password: d.Config.RedisCache.Password,
		DB:       d.Config.RedisCache.DB,
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	d.Redis = rdb
	d.closers = append(d.closers, rdb.Close)
	d.Repositories.RateCache = cache.NewRedisRateSettingsCache(rdb, d.Config.RedisCache.TTL)
	return nil
}

func (d *Dependencies) initPublisher() error {
	if !d.Config.KafkaService.Enabled {
		slog.Info("kafka disabled, affiliate events are not published")
		return nil
	}
	kafkaPublisher, err := publisher.NewDefaultKafkaPublisher(publisher.KafkaConfig{
		Brokers:    d.Config.KafkaService.Brokers,
		Username:   d.Config.KafkaService.Username,
		Password:   d.Config.KafkaService.Password,
		Mechanism:  d.Config.KafkaService.Mechanism,
		TLSEnabled: d.Config.KafkaService.TLSEnabled,
	})
	if err != nil {
		return fmt.Errorf("kafka publisher: %w", err)
	}
	d.Publisher = kafkaPublisher
	d.closers = append(d.closers, kafkaPublisher.Close)
	return nil
}

// HealthChecks lists the reachable dependencies for /healthz.
func (d *Dependencies) HealthChecks() map[string]httpapi.HealthCheck {
	checks := map[string]httpapi.HealthCheck{}
	if d.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases dependencies in reverse order of creation.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
