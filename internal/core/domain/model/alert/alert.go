package alert

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Kind is the severity of an alert.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

func (k Kind) Validate() error {
	switch k {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("unknown alert kind %q", string(k)))
	}
}

// DeliveryRef points an alert at the delivery it describes.
type DeliveryRef struct {
	ID         kernel.UUID
	DeliveryID kernel.DeliveryID
}

// Alert is a notification event for the owner of a delivery.
// It is immutable once built.
type Alert struct {
	id        kernel.UUID
	ownerID   kernel.UUID
	delivery  DeliveryRef
	kind      Kind
	title     string
	message   string
	metadata  map[string]any
	createdAt time.Time
}

// New builds an alert with a fresh id. Metadata is copied.
func New(
	ownerID kernel.UUID,
	ref DeliveryRef,
	kind Kind,
	title, message string,
	metadata map[string]any,
	createdAt time.Time,
) (Alert, error) {
	var errTitle error
	if strings.TrimSpace(title) == "" {
		errTitle = errs.NewValueIsRequiredError("title")
	}

	if err := errors.Join(
		ownerID.Validate(),
		ref.ID.Validate(),
		ref.DeliveryID.Validate(),
		kind.Validate(),
		errTitle,
	); err != nil {
		return Alert{}, err
	}

	return Alert{
		id:        kernel.NewUUID(),
		ownerID:   ownerID,
		delivery:  ref,
		kind:      kind,
		title:     strings.TrimSpace(title),
		message:   strings.TrimSpace(message),
		metadata:  maps.Clone(metadata),
		createdAt: createdAt.UTC(),
	}, nil
}

func (a Alert) ID() kernel.UUID       { return a.id }
func (a Alert) OwnerID() kernel.UUID  { return a.ownerID }
func (a Alert) Delivery() DeliveryRef { return a.delivery }
func (a Alert) Kind() Kind            { return a.kind }
func (a Alert) Title() string         { return a.title }
func (a Alert) Message() string       { return a.message }
func (a Alert) CreatedAt() time.Time  { return a.createdAt }

// Metadata returns a copy of the attached key/value data.
func (a Alert) Metadata() map[string]any { return maps.Clone(a.metadata) }
