package kernel

import (
	"encoding/base32"
	"fmt"
	"io"
	"regexp"
	"sync"

	"parceltrack/internal/pkg/clock"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
)

const deliveryIDPrefix = "DLV"

// crockford is the Crockford base32 alphabet: no I, L, O or U, so tokens read
// back unambiguously over the phone.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

var deliveryIDPattern = regexp.MustCompile(`^DLV-\d{8}-[0-9A-HJKMNP-TV-Z]{10}$`)

// DeliveryID is the human-readable token handed to customers, e.g. DLV-20260310-7K2M9QXC4T.
// It is assigned once at creation and never changes.
type DeliveryID string

// ParseDeliveryID validates the token format.
func ParseDeliveryID(s string) (DeliveryID, error) {
	if s == "" {
		return "", errs.NewValueIsRequiredError("deliveryId")
	}
	if !deliveryIDPattern.MatchString(s) {
		return "", errs.NewValueIsInvalidErrorWithCause("deliveryId", fmt.Errorf("%q is not a delivery id", s))
	}
	return DeliveryID(s), nil
}

func (id DeliveryID) String() string {
	return string(id)
}

// Validate checks the token format.
func (id DeliveryID) Validate() error {
	_, err := ParseDeliveryID(string(id))
	return err
}

// DeliveryIDGenerator builds DeliveryIDs from the creation date and 48 random bits.
// Both the clock and the entropy source are injectable so tests get stable ids.
type DeliveryIDGenerator struct {
	mu      sync.Mutex
	clock   clock.Clock
	entropy io.Reader
}

// NewDeliveryIDGenerator returns a generator. A nil entropy reader uses crypto/rand.
func NewDeliveryIDGenerator(c clock.Clock, entropy io.Reader) *DeliveryIDGenerator {
	return &DeliveryIDGenerator{clock: c, entropy: entropy}
}

// Next returns a fresh DeliveryID.
func (g *DeliveryIDGenerator) Next() (DeliveryID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		raw uuid.UUID
		err error
	)
	if g.entropy == nil {
		raw, err = uuid.NewRandom()
	} else {
		raw, err = uuid.NewRandomFromReader(g.entropy)
	}
	if err != nil {
		return "", fmt.Errorf("generate delivery id: %w", err)
	}

	// bytes 0..5 of a v4 uuid carry no version or variant bits
	suffix := crockford.EncodeToString(raw[:6])
	date := g.clock.Now().UTC().Format("20060102")

	return DeliveryID(fmt.Sprintf("%s-%s-%s", deliveryIDPrefix, date, suffix)), nil
}
