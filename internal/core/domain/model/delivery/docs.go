// Package delivery holds the Delivery aggregate and its value objects.
//
// A Delivery is opened in Scheduled by NewDelivery and afterwards changes only
// through its methods: Transition for the status, UpdateTracking and AttachProof
// for the tracking sub-records, Archive for soft deletion. Stores persist a
// Snapshot and rebuild the aggregate with RestoreDelivery.
package delivery
