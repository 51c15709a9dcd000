// Package upsell models the per-item up-sell negotiation: the operator's
// Decision, the validated Resolution payload applied to an order item, and
// the Metric records appended for reporting.
package upsell
