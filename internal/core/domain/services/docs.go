// Package services contains stateless domain services that work across deliveries.
//
//   - PricingCalculator computes the cost breakdown fixed at creation.
//   - AlertPolicy decides which alerts a lifecycle event raises.
//   - Reporter and the rollup functions summarize an owner's deliveries for dashboards.
//
// None of them touch storage; callers load the aggregates and pass them in.
package services
