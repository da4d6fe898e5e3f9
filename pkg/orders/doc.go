// Package orders reads the signed-in user's order history for the tracking
// screen. Read-only; order placement happens through the payment flow.
package orders
