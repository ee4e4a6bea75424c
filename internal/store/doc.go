// Package store persists mirrored topic messages and entities in Pebble.
//
// Message keys order by (topic, consensus timestamp) so range scans yield
// consensus order; entity keys order by entity number.
package store
