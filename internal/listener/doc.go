// Package listener fans incoming topic messages out to live subscriptions
// over bounded per-subscription queues.
package listener
