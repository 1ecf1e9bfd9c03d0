// Package alert models notification events raised for delivery owners.
package alert
