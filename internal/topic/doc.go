// Package topic defines the domain model for mirrored consensus topics:
// entities, topic messages, and subscription filters.
package topic
