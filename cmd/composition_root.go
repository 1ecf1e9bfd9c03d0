package cmd

import (
	"context"
	"errors"
	"fmt"

	httpapi "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/alerts"
	"parceltrack/internal/adapters/out/identity"
	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/deliveryrepo"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/jobs"
	"parceltrack/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived dependencies and builds handlers on demand.
type CompositionRoot struct {
	cfg    Config
	logger *zap.Logger
	clock  clock.Clock

	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	reader     ports.DeliveryReader

	redis      redis.UniversalClient
	statsCache ports.StatsCache

	dispatcher *alerts.Dispatcher
	identities *identity.JWTProvider
	ids        *kernel.DeliveryIDGenerator
	jobs       *jobs.JobManager
}

// NewCompositionRoot connects storage, cache and alert sink as configured.
// With the postgres driver the schema is migrated on start.
func NewCompositionRoot(cfg Config, logger *zap.Logger, clk clock.Clock) (*CompositionRoot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.StorageDriver == StorageMemory && cfg.AlertSink == AlertSinkPostgres {
		return nil, errors.New("ALERT_SINK=postgres requires STORAGE_DRIVER=postgres")
	}

	c := &CompositionRoot{cfg: cfg, logger: logger, clock: clk}

	switch cfg.StorageDriver {
	case StoragePostgres:
		db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := deliveryrepo.Migrate(db); err != nil {
			return nil, err
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = deliveryrepo.NewGormDeliveryReader(db)
	case StorageMemory:
		store := memory.NewStore()
		c.uowFactory = store
		c.reader = store
	}

	var sink ports.AlertSink
	switch cfg.AlertSink {
	case AlertSinkPostgres:
		if err := alerts.MigrateAlerts(c.gormDB); err != nil {
			return nil, err
		}
		sink = alerts.NewGormSink(c.gormDB)
	case AlertSinkLog:
		sink = alerts.NewLogSink(logger)
	}
	c.dispatcher = alerts.NewDispatcher(sink, cfg.AlertQueueSize, logger)

	if cfg.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.statsCache = rediscache.NewStatsCache(c.redis, cfg.StatsCacheTTL)
	}

	identities, err := identity.NewJWTProvider(cfg.JWTSecret, clk)
	if err != nil {
		return nil, err
	}
	c.identities = identities
	c.ids = kernel.NewDeliveryIDGenerator(clk, nil)
	c.jobs = jobs.NewJobManager(c.CreateRemindOverdueDeliveriesCommandHandler(), cfg.OverdueSchedule, logger)

	return c, nil
}

// Start launches the alert dispatcher and the scheduled jobs.
func (c *CompositionRoot) Start() error {
	c.dispatcher.Start()
	return c.jobs.StartAll()
}

// Close stops the jobs, drains queued alerts and releases connections.
func (c *CompositionRoot) Close(ctx context.Context) error {
	c.jobs.StopAll()

	errDispatcher := c.dispatcher.Stop(ctx)

	var errRedis, errDB error
	if c.redis != nil {
		errRedis = c.redis.Close()
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errDB = sqlDB.Close()
		}
	}
	return errors.Join(errDispatcher, errRedis, errDB)
}

// Identities exposes the token provider, e.g. for issuing development tokens.
func (c *CompositionRoot) Identities() *identity.JWTProvider {
	return c.identities
}

// Router builds the HTTP entry point.
func (c *CompositionRoot) Router() (*echo.Echo, error) {
	server := httpapi.NewServer(httpapi.Handlers{
		CreateDelivery:     c.CreateCreateDeliveryCommandHandler(),
		TransitionDelivery: c.CreateTransitionDeliveryCommandHandler(),
		UpdateTracking:     c.CreateUpdateTrackingCommandHandler(),
		AttachProof:        c.CreateAttachDeliveryProofCommandHandler(),
		ArchiveDelivery:    c.CreateArchiveDeliveryCommandHandler(),
		GetDelivery:        c.CreateGetDeliveryQueryHandler(),
		ListDeliveries:     c.CreateListDeliveriesQueryHandler(),
		StatsOverview:      c.CreateStatsOverviewQueryHandler(),
		DeliveryAnalytics:  c.CreateDeliveryAnalyticsQueryHandler(),
	}, c.clock)
	return httpapi.NewRouter(server, c.identities, c.logger)
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) statsInvalidator() commands.StatsInvalidator {
	if c.statsCache == nil {
		return nil
	}
	return c.statsCache
}

func (c *CompositionRoot) pricingRates() services.Rates {
	rates := services.DefaultRates()
	rates.Base = decimal.NewFromFloat(c.cfg.PricingBaseCost)
	return rates
}

func (c *CompositionRoot) reporter() services.Reporter {
	return services.NewReporter(c.cfg.WeekStart(), c.cfg.Location())
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(
		c.deliveryUoWFactory(),
		c.ids,
		c.clock,
		services.NewPricingCalculator(c.pricingRates()),
		services.NewAlertPolicy(),
		c.dispatcher,
		c.statsInvalidator(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateTransitionDeliveryCommandHandler() commands.TransitionDeliveryCommandHandler {
	return commands.NewTransitionDeliveryCommandHandler(
		c.deliveryUoWFactory(), c.clock, services.NewAlertPolicy(), c.dispatcher, c.statsInvalidator(), c.logger)
}

func (c *CompositionRoot) CreateUpdateTrackingCommandHandler() commands.UpdateTrackingCommandHandler {
	return commands.NewUpdateTrackingCommandHandler(c.deliveryUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAttachDeliveryProofCommandHandler() commands.AttachDeliveryProofCommandHandler {
	return commands.NewAttachDeliveryProofCommandHandler(c.deliveryUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateArchiveDeliveryCommandHandler() commands.ArchiveDeliveryCommandHandler {
	return commands.NewArchiveDeliveryCommandHandler(c.deliveryUoWFactory(), c.clock, c.statsInvalidator())
}

func (c *CompositionRoot) CreateRemindOverdueDeliveriesCommandHandler() commands.RemindOverdueDeliveriesCommandHandler {
	return commands.NewRemindOverdueDeliveriesCommandHandler(c.reader, c.clock, services.NewAlertPolicy(), c.dispatcher)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateStatsOverviewQueryHandler() queries.StatsOverviewQueryHandler {
	return queries.NewStatsOverviewQueryHandler(c.reader, c.reporter(), c.statsCache)
}

func (c *CompositionRoot) CreateDeliveryAnalyticsQueryHandler() queries.DeliveryAnalyticsQueryHandler {
	return queries.NewDeliveryAnalyticsQueryHandler(c.reader, c.reporter(), c.clock, c.statsCache)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
