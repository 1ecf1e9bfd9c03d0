package deliveryrepo_test

import (
	"context"
	"testing"
	"time"

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
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var createdAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// DeliveryRepositoryIntegrationTestSuite runs the repository and reader against PostgreSQL.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
	reader     *deliveryrepo.GormDeliveryReader
	ids        *kernel.DeliveryIDGenerator
	owner      kernel.UUID
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(deliveryrepo.Migrate(db))
	// second run must be harmless
	suite.Require().NoError(deliveryrepo.Migrate(db))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_status_history, deliveries").Error)

	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db)
	suite.reader = deliveryrepo.NewGormDeliveryReader(suite.db)
	suite.ids = kernel.NewDeliveryIDGenerator(clock.NewFixed(createdAt), nil)
	suite.owner = kernel.NewUUID()
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_RoundTripsEveryField() {
	ctx := context.Background()
	d := suite.newDelivery(suite.owner, createdAt, true)

	suite.Require().NoError(suite.repository.Add(ctx, d))

	got, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)

	suite.Equal(d.ID(), got.ID())
	suite.Equal(d.Customer().Email(), got.Customer().Email())
	suite.Equal(d.Pickup().String(), got.Pickup().String())
	suite.Require().NotNil(got.Destination().Coordinates())
	suite.InDelta(40.7306, got.Destination().Coordinates().Latitude(), 1e-9)
	suite.Require().NotNil(got.Parcel().Dimensions())
	suite.InDelta(30.0, got.Parcel().Dimensions().LengthCm(), 1e-9)
	suite.True(got.Parcel().Fragile())
	suite.Equal(delivery.SlotMorning, got.Schedule().TimeSlot())
	suite.Equal(delivery.PriorityUrgent, got.Priority())
	suite.Require().NotNil(got.Route())
	suite.Equal(45*time.Minute, got.Route().EstimatedDuration())
	suite.True(decimal.RequireFromString("330.00").Equal(got.Pricing().TotalCost()))
	suite.Equal(delivery.Scheduled, got.Status())
	suite.Require().Len(got.History(), 1)
	suite.Equal("Delivery scheduled", got.History()[0].Notes())
	suite.True(createdAt.Equal(got.CreatedAt()))
	suite.Equal(0, got.Version())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_DuplicateDeliveryID_ReturnsAlreadyExist() {
	ctx := context.Background()
	first := suite.newDelivery(suite.owner, createdAt, false)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	s := suite.newDelivery(suite.owner, createdAt, false).Snapshot()
	s.DeliveryID = first.DeliveryID()
	clash, err := delivery.RestoreDelivery(s)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, clash)

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExist)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryAndBumpsVersion() {
	ctx := context.Background()
	d := suite.newDelivery(suite.owner, createdAt, false)
	suite.Require().NoError(suite.repository.Add(ctx, d))

	loaded, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Transition(delivery.PickedUp, "Depot", "", "driver-7", createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	got, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Equal(1, got.Version())
	suite.Equal(delivery.PickedUp, got.Status())
	suite.Require().Len(got.History(), 2)
	suite.Equal(loaded.History()[0], got.History()[0])
	suite.Equal("driver-7", got.History()[1].ActorID())
	suite.Require().NotNil(got.Tracking().ActualPickupTime())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionIsInvalid() {
	ctx := context.Background()
	d := suite.newDelivery(suite.owner, createdAt, false)
	suite.Require().NoError(suite.repository.Add(ctx, d))

	a, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	b, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.Transition(delivery.PickedUp, "", "", "", createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, a))

	suite.Require().NoError(b.Transition(delivery.Cancelled, "", "", "", createdAt.Add(time.Hour)))
	err = suite.repository.Update(ctx, b)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	got, err := suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().NoError(err)
	suite.Equal(delivery.PickedUp, got.Status())
	suite.Len(got.History(), 2)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_ForeignOrArchived_ReturnsNotFound() {
	ctx := context.Background()
	d := suite.newDelivery(suite.owner, createdAt, false)
	suite.Require().NoError(suite.repository.Add(ctx, d))

	_, err := suite.repository.Get(ctx, kernel.NewUUID(), d.DeliveryID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(d.Archive(createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, d))

	_, err = suite.repository.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.reader.Get(ctx, suite.owner, d.DeliveryID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestList_FiltersPagesAndOrders() {
	ctx := context.Background()
	var all []*delivery.Delivery
	for i := range 5 {
		d := suite.newDelivery(suite.owner, createdAt.Add(time.Duration(i)*time.Hour), false)
		suite.Require().NoError(suite.repository.Add(ctx, d))
		all = append(all, d)
	}
	suite.Require().NoError(suite.repository.Add(ctx, suite.newDelivery(kernel.NewUUID(), createdAt, false)))

	inTransit := all[1]
	suite.Require().NoError(inTransit.Transition(delivery.InTransit, "", "", "", createdAt.Add(6*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, inTransit))

	page, total, err := suite.reader.List(ctx, suite.owner, ports.DeliveryFilter{}, ports.PageRequest{Page: 1, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal(5, total)
	suite.Require().Len(page, 2)
	suite.Equal(all[4].DeliveryID(), page[0].DeliveryID())
	suite.Equal(all[3].DeliveryID(), page[1].DeliveryID())

	status := delivery.InTransit
	filtered, total, err := suite.reader.List(ctx, suite.owner,
		ports.DeliveryFilter{Status: &status}, ports.PageRequest{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(1, total)
	suite.Require().Len(filtered, 1)
	suite.Len(filtered[0].History(), 2)

	from, to := createdAt.Add(time.Hour), createdAt.Add(3*time.Hour)
	ranged, total, err := suite.reader.List(ctx, suite.owner,
		ports.DeliveryFilter{CreatedFrom: &from, CreatedTo: &to}, ports.PageRequest{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(2, total)
	suite.Len(ranged, 2)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestListOverdue_SkipsTerminalAndArchived() {
	ctx := context.Background()
	late := suite.newDelivery(suite.owner, createdAt, false)
	done := suite.newDelivery(suite.owner, createdAt, false)
	archived := suite.newDelivery(suite.owner, createdAt, false)
	for _, d := range []*delivery.Delivery{late, done, archived} {
		suite.Require().NoError(suite.repository.Add(ctx, d))
	}
	suite.Require().NoError(done.Transition(delivery.Delivered, "", "", "", createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, done))
	suite.Require().NoError(archived.Archive(createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, archived))

	got, err := suite.reader.ListOverdue(ctx, createdAt.Add(72*time.Hour), 10)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(late.DeliveryID(), got[0].DeliveryID())

	none, err := suite.reader.ListOverdue(ctx, createdAt, 10)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestListActive_ReturnsOnlyOwnedActive() {
	ctx := context.Background()
	mine := suite.newDelivery(suite.owner, createdAt, false)
	gone := suite.newDelivery(suite.owner, createdAt, false)
	suite.Require().NoError(suite.repository.Add(ctx, mine))
	suite.Require().NoError(suite.repository.Add(ctx, gone))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newDelivery(kernel.NewUUID(), createdAt, false)))
	suite.Require().NoError(gone.Archive(createdAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, gone))

	got, err := suite.reader.ListActive(ctx, suite.owner)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(mine.ID(), got[0].ID())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newDelivery(owner kernel.UUID, at time.Time, full bool) *delivery.Delivery {
	id, err := suite.ids.Next()
	suite.Require().NoError(err)

	customer, err := delivery.NewCustomer("Ada Park", "ada@example.com", "+1 555 0100", "Park & Co")
	suite.Require().NoError(err)
	pickup, err := delivery.NewAddress("1 Main St", "New York", "NY", "10001", "US", nil)
	suite.Require().NoError(err)

	var coords *kernel.Location
	var dims *delivery.Dimensions
	var route *delivery.RouteInfo
	slot := delivery.SlotAnytime
	if full {
		loc, locErr := kernel.NewLocation(40.7306, -73.9352)
		suite.Require().NoError(locErr)
		coords = &loc
		d, dimErr := delivery.NewDimensions(30, 20, 10)
		suite.Require().NoError(dimErr)
		dims = &d
		km := 10.0
		r, routeErr := delivery.NewRouteInfo(&km, 45*time.Minute, false)
		suite.Require().NoError(routeErr)
		route = &r
		slot = delivery.SlotMorning
	}

	destination, err := delivery.NewAddress("9 Elm St", "Brooklyn", "NY", "11201", "US", coords)
	suite.Require().NoError(err)
	parcel, err := delivery.NewParcel(delivery.PackageMedium, 7, dims, full, "books")
	suite.Require().NoError(err)
	schedule, err := delivery.NewSchedule(at, at.Add(24*time.Hour), slot, full)
	suite.Require().NoError(err)

	special := decimal.Zero
	if full {
		special = decimal.NewFromInt(50)
	}
	pricing, err := delivery.NewPricing(decimal.NewFromInt(150), decimal.NewFromInt(120), decimal.NewFromInt(10), special)
	suite.Require().NoError(err)

	d, err := delivery.NewDelivery(delivery.Draft{
		ID:          kernel.NewUUID(),
		DeliveryID:  id,
		OwnerID:     owner,
		Customer:    customer,
		Pickup:      pickup,
		Destination: destination,
		Parcel:      parcel,
		Schedule:    schedule,
		Route:       route,
		Pricing:     pricing,
		CreatedAt:   at,
	})
	suite.Require().NoError(err)
	return d
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
