// Package queries contains read-only operations over deliveries.
// Handlers read through ports.DeliveryReader and never open a unit of work.
package queries
