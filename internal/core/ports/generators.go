package ports

import "parceltrack/internal/core/domain/model/kernel"

// DeliveryIDGenerator issues human-readable delivery ids.
type DeliveryIDGenerator interface {
	Next() (kernel.DeliveryID, error)
}
