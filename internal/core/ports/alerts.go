package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/alert"
)

// AlertEmitter accepts alerts for best-effort delivery.
// Emit never blocks on the sink and never reports sink failures.
type AlertEmitter interface {
	Emit(ctx context.Context, alerts ...alert.Alert)
}

// AlertSink stores or forwards a single alert.
type AlertSink interface {
	Write(ctx context.Context, a alert.Alert) error
}
