package services

import (
	"slices"
	"time"

	"parceltrack/internal/core/domain/model/delivery"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// Overview is the dashboard summary of an owner's deliveries.
type Overview struct {
	Total           int
	Completed       int
	InProgress      int
	Revenue         decimal.Decimal
	StatusBreakdown map[delivery.Status]int
	Recent          []*delivery.Delivery
}

// Window holds the count and realized revenue of deliveries created in a calendar period.
type Window struct {
	Count   int
	Revenue decimal.Decimal
}

// Analytics is the detailed rollup of an owner's deliveries.
// AverageDuration is nil when no delivery has both pickup and delivered times.
type Analytics struct {
	StatusCounts    map[delivery.Status]int
	TypeCounts      map[delivery.PackageType]int
	PriorityCounts  map[delivery.Priority]int
	Revenue         decimal.Decimal
	AverageDuration *time.Duration
	Today           Window
	ThisWeek        Window
	ThisMonth       Window
}

// Reporter computes read-only rollups. Archived deliveries are ignored.
// Calendar windows follow the configured week start and time zone.
type Reporter struct {
	calendar *now.Config
}

// NewReporter creates a reporter whose calendar windows start on weekStart in loc.
func NewReporter(weekStart time.Weekday, loc *time.Location) Reporter {
	if loc == nil {
		loc = time.UTC
	}
	return Reporter{calendar: &now.Config{WeekStartDay: weekStart, TimeLocation: loc}}
}

// Overview summarizes ds; recent holds at most recentLimit deliveries, newest first.
func (r Reporter) Overview(ds []*delivery.Delivery, recentLimit int) Overview {
	active := activeOnly(ds)

	o := Overview{
		Total:           len(active),
		Revenue:         Revenue(active),
		StatusBreakdown: StatusCounts(active),
	}
	for _, d := range active {
		if d.IsCompleted() {
			o.Completed++
		}
		if d.IsInProgress() {
			o.InProgress++
		}
	}

	recent := slices.Clone(active)
	slices.SortStableFunc(recent, func(a, b *delivery.Delivery) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	if recentLimit >= 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	o.Recent = recent

	return o
}

// Analytics computes the full rollup of ds as of at.
func (r Reporter) Analytics(ds []*delivery.Delivery, at time.Time) Analytics {
	active := activeOnly(ds)
	cal := r.calendar.With(at)

	a := Analytics{
		StatusCounts:   StatusCounts(active),
		TypeCounts:     make(map[delivery.PackageType]int),
		PriorityCounts: make(map[delivery.Priority]int),
		Revenue:        Revenue(active),
		Today:          window(active, cal.BeginningOfDay(), cal.EndOfDay()),
		ThisWeek:       window(active, cal.BeginningOfWeek(), cal.EndOfWeek()),
		ThisMonth:      window(active, cal.BeginningOfMonth(), cal.EndOfMonth()),
	}
	for _, d := range active {
		a.TypeCounts[d.Parcel().Type()]++
		a.PriorityCounts[d.Priority()]++
	}
	if avg, ok := AverageDuration(active); ok {
		a.AverageDuration = &avg
	}

	return a
}

// StatusCounts groups deliveries by current status.
func StatusCounts(ds []*delivery.Delivery) map[delivery.Status]int {
	counts := make(map[delivery.Status]int)
	for _, d := range ds {
		counts[d.Status()]++
	}
	return counts
}

// Revenue sums the total cost of delivered deliveries only.
func Revenue(ds []*delivery.Delivery) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range ds {
		if d.Status() == delivery.Delivered {
			sum = sum.Add(d.Pricing().TotalCost())
		}
	}
	return sum
}

// AverageDuration is the mean pickup-to-delivered time over deliveries that have both.
// ok is false when none qualifies.
func AverageDuration(ds []*delivery.Delivery) (avg time.Duration, ok bool) {
	var (
		total time.Duration
		n     int
	)
	for _, d := range ds {
		if dur, has := d.Tracking().DeliveryDuration(); has {
			total += dur
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / time.Duration(n), true
}

func window(ds []*delivery.Delivery, from, to time.Time) Window {
	w := Window{Revenue: decimal.Zero}
	for _, d := range ds {
		created := d.CreatedAt()
		if created.Before(from) || created.After(to) {
			continue
		}
		w.Count++
		if d.Status() == delivery.Delivered {
			w.Revenue = w.Revenue.Add(d.Pricing().TotalCost())
		}
	}
	return w
}

func activeOnly(ds []*delivery.Delivery) []*delivery.Delivery {
	out := make([]*delivery.Delivery, 0, len(ds))
	for _, d := range ds {
		if d != nil && d.IsActive() {
			out = append(out, d)
		}
	}
	return out
}
