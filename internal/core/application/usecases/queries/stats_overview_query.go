package queries

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// RecentDeliveriesLimit is the size of the recent list of the overview.
const RecentDeliveriesLimit = 5

const overviewView = "overview"

var ErrStatsOverviewQueryIsNotConstructed = errors.New(
	"StatsOverviewQuery must be created via NewStatsOverviewQuery constructor",
)

type StatsOverviewQuery struct {
	ownerID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewStatsOverviewQuery creates a dashboard overview request for ownerID.
func NewStatsOverviewQuery(ownerID kernel.UUID) (StatsOverviewQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return StatsOverviewQuery{}, err
	}
	return StatsOverviewQuery{ownerID: ownerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q StatsOverviewQuery) Validate() error {
	return q.guard.Validate(ErrStatsOverviewQueryIsNotConstructed)
}

// RecentDelivery is the short form used in dashboards.
type RecentDelivery struct {
	DeliveryID   string          `json:"deliveryId"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// StatsOverviewResponse is the dashboard summary.
// StatusBreakdown lists every status, zero counts included.
type StatsOverviewResponse struct {
	Total            int              `json:"total"`
	Completed        int              `json:"completed"`
	InProgress       int              `json:"inProgress"`
	Revenue          decimal.Decimal  `json:"revenue"`
	StatusBreakdown  map[string]int   `json:"statusBreakdown"`
	RecentDeliveries []RecentDelivery `json:"recentDeliveries"`
}

// StatsOverviewQueryHandler computes the overview from active deliveries.
// With a cache, results may lag writes until invalidated or expired.
type StatsOverviewQueryHandler struct {
	reader   ports.DeliveryReader
	reporter services.Reporter
	cache    ports.StatsCache
}

// NewStatsOverviewQueryHandler wires the handler. cache may be nil.
func NewStatsOverviewQueryHandler(
	reader ports.DeliveryReader,
	reporter services.Reporter,
	cache ports.StatsCache,
) StatsOverviewQueryHandler {
	return StatsOverviewQueryHandler{reader: reader, reporter: reporter, cache: cache}
}

// Handle serves the cached overview when present and computes it otherwise.
func (h StatsOverviewQueryHandler) Handle(ctx context.Context, q StatsOverviewQuery) (StatsOverviewResponse, error) {
	if err := q.Validate(); err != nil {
		return StatsOverviewResponse{}, err
	}

	var resp StatsOverviewResponse
	if h.cache != nil {
		if ok, err := h.cache.Load(ctx, q.ownerID, overviewView, &resp); err == nil && ok {
			return resp, nil
		}
	}

	var (
		generation int64
		genErr     error
	)
	if h.cache != nil {
		generation, genErr = h.cache.Generation(ctx, q.ownerID)
	}

	ds, err := h.reader.ListActive(ctx, q.ownerID)
	if err != nil {
		return StatsOverviewResponse{}, err
	}

	o := h.reporter.Overview(ds, RecentDeliveriesLimit)
	resp = StatsOverviewResponse{
		Total:            o.Total,
		Completed:        o.Completed,
		InProgress:       o.InProgress,
		Revenue:          o.Revenue,
		StatusBreakdown:  statusNames(o.StatusBreakdown),
		RecentDeliveries: make([]RecentDelivery, 0, len(o.Recent)),
	}
	for _, d := range o.Recent {
		resp.RecentDeliveries = append(resp.RecentDeliveries, RecentDelivery{
			DeliveryID:   d.DeliveryID().String(),
			CustomerName: d.Customer().Name(),
			Status:       d.Status().String(),
			TotalCost:    d.Pricing().TotalCost(),
			CreatedAt:    d.CreatedAt(),
		})
	}

	if h.cache != nil {
		if genErr == nil {
			_ = h.cache.Store(ctx, q.ownerID, overviewView, generation, resp)
		}
	}
	return resp, nil
}

func statusNames(counts map[delivery.Status]int) map[string]int {
	out := make(map[string]int, len(delivery.AllStatuses()))
	for _, s := range delivery.AllStatuses() {
		out[s.String()] = counts[s]
	}
	return out
}
