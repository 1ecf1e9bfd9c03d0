// Package kernel holds the primitives shared by every aggregate of the
// parcel tracking domain:
//   - UUID: internal identity of aggregates and owners
//   - Location: a validated latitude/longitude pair with haversine distance
//   - DeliveryID and its generator: the human-readable, immutable delivery token
//
// Values are immutable and only valid when built through their constructors.
package kernel
