package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"
	"parceltrack/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const analyticsView = "analytics"

var ErrDeliveryAnalyticsQueryIsNotConstructed = errors.New(
	"DeliveryAnalyticsQuery must be created via NewDeliveryAnalyticsQuery constructor",
)

type DeliveryAnalyticsQuery struct {
	ownerID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewDeliveryAnalyticsQuery creates an analytics request for ownerID.
func NewDeliveryAnalyticsQuery(ownerID kernel.UUID) (DeliveryAnalyticsQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return DeliveryAnalyticsQuery{}, err
	}
	return DeliveryAnalyticsQuery{ownerID: ownerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q DeliveryAnalyticsQuery) Validate() error {
	return q.guard.Validate(ErrDeliveryAnalyticsQueryIsNotConstructed)
}

type WindowStats struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DeliveryAnalyticsResponse is the detailed rollup.
// AverageDurationHours is nil when no delivery has both pickup and delivered times.
type DeliveryAnalyticsResponse struct {
	StatusCounts         map[string]int  `json:"statusCounts"`
	TypeCounts           map[string]int  `json:"typeCounts"`
	PriorityCounts       map[string]int  `json:"priorityCounts"`
	Revenue              decimal.Decimal `json:"revenue"`
	AverageDurationHours *float64        `json:"averageDurationHours"`
	Today                WindowStats     `json:"today"`
	ThisWeek             WindowStats     `json:"thisWeek"`
	ThisMonth            WindowStats     `json:"thisMonth"`
}

type DeliveryAnalyticsQueryHandler struct {
	reader   ports.DeliveryReader
	reporter services.Reporter
	clock    clock.Clock
	cache    ports.StatsCache
}

// NewDeliveryAnalyticsQueryHandler wires the handler. cache may be nil.
func NewDeliveryAnalyticsQueryHandler(
	reader ports.DeliveryReader,
	reporter services.Reporter,
	clk clock.Clock,
	cache ports.StatsCache,
) DeliveryAnalyticsQueryHandler {
	return DeliveryAnalyticsQueryHandler{reader: reader, reporter: reporter, clock: clk, cache: cache}
}

// Handle serves cached analytics when present and computes them otherwise.
func (h DeliveryAnalyticsQueryHandler) Handle(
	ctx context.Context,
	q DeliveryAnalyticsQuery,
) (DeliveryAnalyticsResponse, error) {
	if err := q.Validate(); err != nil {
		return DeliveryAnalyticsResponse{}, err
	}

	var resp DeliveryAnalyticsResponse
	if h.cache != nil {
		if ok, err := h.cache.Load(ctx, q.ownerID, analyticsView, &resp); err == nil && ok {
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
		return DeliveryAnalyticsResponse{}, err
	}

	a := h.reporter.Analytics(ds, h.clock.Now())
	resp = DeliveryAnalyticsResponse{
		StatusCounts:   statusNames(a.StatusCounts),
		TypeCounts:     make(map[string]int, len(delivery.PackageTypes())),
		PriorityCounts: make(map[string]int, len(delivery.Priorities())),
		Revenue:        a.Revenue,
		Today:          WindowStats(a.Today),
		ThisWeek:       WindowStats(a.ThisWeek),
		ThisMonth:      WindowStats(a.ThisMonth),
	}
	for _, t := range delivery.PackageTypes() {
		resp.TypeCounts[t.String()] = a.TypeCounts[t]
	}
	for _, p := range delivery.Priorities() {
		resp.PriorityCounts[string(p)] = a.PriorityCounts[p]
	}
	if a.AverageDuration != nil {
		hours := a.AverageDuration.Hours()
		resp.AverageDurationHours = &hours
	}

	if h.cache != nil {
		if genErr == nil {
			_ = h.cache.Store(ctx, q.ownerID, analyticsView, generation, resp)
		}
	}
	return resp, nil
}
