package services

import (
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/core/domain/model/delivery"

	"github.com/shopspring/decimal"
)

// RouteSavingsPercent is the fixed savings estimate reported by the route suggestion on creation.
// No route optimization is performed.
const RouteSavingsPercent = 15

// AlertPolicy maps lifecycle events of a delivery to the alerts its owner receives.
//
//	creation           -> success (scheduled) + info (route suggestion)
//	-> Delivered       -> success (completed) + success (revenue, carries totalCost)
//	-> Failed          -> error
//	-> Cancelled       -> warning
//	-> any other state -> info
type AlertPolicy struct{}

// NewAlertPolicy creates the alert policy.
func NewAlertPolicy() AlertPolicy {
	return AlertPolicy{}
}

// ForCreation builds the alerts raised when d is opened.
func (AlertPolicy) ForCreation(d *delivery.Delivery, now time.Time) ([]alert.Alert, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	total := d.Pricing().TotalCost()
	savings := total.Mul(decimal.NewFromInt(RouteSavingsPercent)).Div(decimal.NewFromInt(100)).Round(2)

	return build(now,
		draft(d, alert.KindSuccess, "Delivery scheduled",
			fmt.Sprintf("Delivery %s for %s is scheduled for pickup on %s.",
				d.DeliveryID(), d.Customer().Name(), d.Schedule().PickupDate().Format(time.DateOnly)),
			map[string]any{"status": d.Status().String(), "totalCost": total.StringFixed(2)}),
		draft(d, alert.KindInfo, "Route optimization available",
			fmt.Sprintf("An optimized route could save about %d%% on delivery %s.", RouteSavingsPercent, d.DeliveryID()),
			map[string]any{"estimatedSavingsPercent": RouteSavingsPercent, "estimatedSavings": savings.StringFixed(2)}),
	)
}

// ForTransition builds the alerts for the state d has just entered.
func (AlertPolicy) ForTransition(d *delivery.Delivery, now time.Time) ([]alert.Alert, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	status := d.Status()
	meta := map[string]any{"status": status.String()}

	switch status {
	case delivery.Delivered:
		total := d.Pricing().TotalCost().StringFixed(2)
		return build(now,
			draft(d, alert.KindSuccess, "Delivery completed",
				fmt.Sprintf("Delivery %s to %s was completed.", d.DeliveryID(), d.Customer().Name()), meta),
			draft(d, alert.KindSuccess, "Revenue earned",
				fmt.Sprintf("Delivery %s earned %s.", d.DeliveryID(), total),
				map[string]any{"status": status.String(), "totalCost": total}),
		)
	case delivery.Failed:
		return build(now, draft(d, alert.KindError, "Delivery failed",
			fmt.Sprintf("Delivery %s could not be completed.", d.DeliveryID()), meta))
	case delivery.Cancelled:
		return build(now, draft(d, alert.KindWarning, "Delivery cancelled",
			fmt.Sprintf("Delivery %s was cancelled.", d.DeliveryID()), meta))
	default:
		return build(now, draft(d, alert.KindInfo, "Delivery status updated",
			fmt.Sprintf("Delivery %s is now %s.", d.DeliveryID(), status), meta))
	}
}

// ForOverdue builds the reminder for an open delivery past its planned date.
func (AlertPolicy) ForOverdue(d *delivery.Delivery, now time.Time) (alert.Alert, error) {
	if err := d.Validate(); err != nil {
		return alert.Alert{}, err
	}

	due := d.Schedule().DeliveryDate()
	alerts, err := build(now, draft(d, alert.KindWarning, "Delivery overdue",
		fmt.Sprintf("Delivery %s was due on %s and is still %s.", d.DeliveryID(), due.Format(time.DateOnly), d.Status()),
		map[string]any{
			"status":       d.Status().String(),
			"deliveryDate": due.Format(time.RFC3339),
			"overdueHours": int(now.Sub(due).Hours()),
		}))
	if err != nil {
		return alert.Alert{}, err
	}
	return alerts[0], nil
}

type alertDraft struct {
	d        *delivery.Delivery
	kind     alert.Kind
	title    string
	message  string
	metadata map[string]any
}

func draft(d *delivery.Delivery, kind alert.Kind, title, message string, metadata map[string]any) alertDraft {
	return alertDraft{d: d, kind: kind, title: title, message: message, metadata: metadata}
}

func build(now time.Time, drafts ...alertDraft) ([]alert.Alert, error) {
	out := make([]alert.Alert, 0, len(drafts))
	var errsJoined error
	for _, s := range drafts {
		ref := alert.DeliveryRef{ID: s.d.ID(), DeliveryID: s.d.DeliveryID()}
		a, err := alert.New(s.d.OwnerID(), ref, s.kind, s.title, s.message, s.metadata, now)
		if err != nil {
			errsJoined = errors.Join(errsJoined, err)
			continue
		}
		out = append(out, a)
	}
	if errsJoined != nil {
		return nil, errsJoined
	}
	return out, nil
}
