// Package ingest consumes committed mirror records from Kafka, applies the
// optional CEL admission filter, appends them to storage, then publishes to
// the live bus. Commit-before-broadcast ordering is what lets subscriptions
// backfill any gap from storage.
package ingest
