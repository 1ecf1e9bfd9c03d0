package delivery

import (
	"errors"
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
)

// StatusEntry is one immutable record of the status history.
type StatusEntry struct {
	status    Status
	timestamp time.Time
	location  string
	notes     string
	actorID   string
}

// NewStatusEntry validates the status and requires a timestamp.
func NewStatusEntry(status Status, timestamp time.Time, location, notes, actorID string) (StatusEntry, error) {
	var errTime error
	if timestamp.IsZero() {
		errTime = errs.NewValueIsRequiredError("history.timestamp")
	}
	if err := errors.Join(status.Validate(), errTime); err != nil {
		return StatusEntry{}, err
	}

	return StatusEntry{
		status:    status,
		timestamp: timestamp.UTC(),
		location:  strings.TrimSpace(location),
		notes:     strings.TrimSpace(notes),
		actorID:   strings.TrimSpace(actorID),
	}, nil
}

func (e StatusEntry) Status() Status       { return e.status }
func (e StatusEntry) Timestamp() time.Time { return e.timestamp }
func (e StatusEntry) Location() string     { return e.location }
func (e StatusEntry) Notes() string        { return e.notes }
func (e StatusEntry) ActorID() string      { return e.actorID }
