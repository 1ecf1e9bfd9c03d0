package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/deliveryrepo"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite checks transaction boundaries against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	owner     kernel.UUID
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(deliveryrepo.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_status_history, deliveries").Error)
	suite.owner = kernel.NewUUID()
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.DeliveryRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().Error(uow.Rollback(ctx), "nothing to roll back after commit")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitMakesWritesVisible() {
	ctx := context.Background()
	d := suite.newDelivery()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))

	_, err := suite.factory.Create().DeliveryRepository().Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "uncommitted row must not leak")

	suite.Require().NoError(uow.Commit(ctx))

	got, err := suite.factory.Create().DeliveryRepository().Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Equal(d.ID(), got.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsTransitionAndHistory() {
	ctx := context.Background()
	d := suite.newDelivery()
	suite.Require().NoError(suite.factory.Create().DeliveryRepository().Add(ctx, d))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.DeliveryRepository().Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(delivery.Cancelled, "", "customer request", "", time.Now()))
	suite.Require().NoError(uow.DeliveryRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	got, err := suite.factory.Create().DeliveryRepository().Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Scheduled, got.Status())
	suite.Len(got.History(), 1)
	suite.Equal(0, got.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) newDelivery() *delivery.Delivery {
	now := time.Now().UTC().Truncate(time.Second)
	id, err := kernel.NewDeliveryIDGenerator(clock.NewFixed(now), nil).Next()
	suite.Require().NoError(err)
	customer, err := delivery.NewCustomer("Ada Park", "", "", "")
	suite.Require().NoError(err)
	addr, err := delivery.NewAddress("1 Main St", "New York", "", "", "", nil)
	suite.Require().NoError(err)
	parcel, err := delivery.NewParcel(delivery.PackageDocument, 0.5, nil, false, "")
	suite.Require().NoError(err)
	schedule, err := delivery.NewSchedule(now, now.Add(24*time.Hour), "", false)
	suite.Require().NoError(err)
	pricing, err := delivery.NewPricing(decimal.NewFromInt(150), decimal.Zero, decimal.Zero, decimal.Zero)
	suite.Require().NoError(err)

	d, err := delivery.NewDelivery(delivery.Draft{
		ID: kernel.NewUUID(), DeliveryID: id, OwnerID: suite.owner,
		Customer: customer, Pickup: addr, Destination: addr,
		Parcel: parcel, Schedule: schedule, Pricing: pricing, CreatedAt: now,
	})
	suite.Require().NoError(err)
	return d
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
