package delivery

import (
	"errors"
	"net/mail"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCustomerIsNotConstructed = errs.NewValueIsRequiredError("customer must be created via NewCustomer")
	ErrAddressIsNotConstructed  = errs.NewValueIsRequiredError("address must be created via NewAddress")
)

// Customer is the recipient of a delivery.
type Customer struct {
	name    string
	email   string
	phone   string
	company string
	guard   guard.ConstructorGuard
}

// NewCustomer requires a name. Email is optional but must parse when present.
func NewCustomer(name, email, phone, company string) (Customer, error) {
	c := Customer{
		phone:   strings.TrimSpace(phone),
		company: strings.TrimSpace(company),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setName(name), c.setEmail(email)); err != nil {
		return Customer{}, err
	}

	return c, nil
}

func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c Customer) Name() string    { return c.name }
func (c Customer) Email() string   { return c.email }
func (c Customer) Phone() string   { return c.phone }
func (c Customer) Company() string { return c.company }

func (c *Customer) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customer.name")
	}
	c.name = name
	return nil
}

func (c *Customer) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customer.email", err)
	}
	c.email = email
	return nil
}

// Address is a pickup or destination point. Coordinates are optional.
type Address struct {
	street      string
	city        string
	state       string
	postalCode  string
	country     string
	coordinates *kernel.Location
	guard       guard.ConstructorGuard
}

// NewAddress requires street and city.
func NewAddress(street, city, state, postalCode, country string, coordinates *kernel.Location) (Address, error) {
	a := Address{
		state:      strings.TrimSpace(state),
		postalCode: strings.TrimSpace(postalCode),
		country:    strings.TrimSpace(country),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setStreet(street),
		a.setCity(city),
		a.setCoordinates(coordinates),
	); err != nil {
		return Address{}, err
	}

	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string     { return a.street }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

// Coordinates returns a copy of the location, or nil when unknown.
func (a Address) Coordinates() *kernel.Location {
	if a.coordinates == nil {
		return nil
	}
	loc := *a.coordinates
	return &loc
}

// String renders the address on one line, skipping empty parts.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("address.street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("address.city")
	}
	a.city = city
	return nil
}

func (a *Address) setCoordinates(coordinates *kernel.Location) error {
	if coordinates == nil {
		return nil
	}
	if err := coordinates.Validate(); err != nil {
		return err
	}
	loc := *coordinates
	a.coordinates = &loc
	return nil
}
