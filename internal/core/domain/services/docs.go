// Package services provides domain services of the fulfillment engine that
// work on top of the Order aggregate:
//   - ReleaseGate applies the auto and manual release rules
//   - BarcodeMatcher ranks scan candidates across the logistics queue
//   - ShipmentFinalizer reports readiness and runs both shipping paths
//
// Services are stateless; persistence and locking are left to the callers.
package services
