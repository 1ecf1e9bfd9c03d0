package alerts

import (
	"context"

	"parceltrack/internal/core/domain/model/alert"

	"go.uber.org/zap"
)

// LogSink writes alerts to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink writing every alert at info level.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.With(zap.String("component", "alert-log-sink"))}
}

func (s *LogSink) Write(_ context.Context, a alert.Alert) error {
	s.logger.Info(a.Title(),
		zap.String("alert_id", a.ID().String()),
		zap.String("owner_id", a.OwnerID().String()),
		zap.String("delivery_id", a.Delivery().DeliveryID.String()),
		zap.String("kind", string(a.Kind())),
		zap.String("message", a.Message()),
		zap.Any("metadata", a.Metadata()),
		zap.Time("created_at", a.CreatedAt()))
	return nil
}
