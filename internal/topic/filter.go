package topic

import (
	"strings"
	"time"
)

// Filter describes a topic subscription: which topic, the consensus-time
// window, and an optional message cap.
//
// StartTime is inclusive, EndTime exclusive; both are nanoseconds since the
// Unix epoch. EndTime == 0 means no upper bound. Limit == 0 means unbounded.
type Filter struct {
	TopicID      EntityID
	StartTime    int64
	EndTime      int64
	Limit        int64
	SubscriberID string
}

// HasEndTime reports whether the filter carries an upper bound.
func (f Filter) HasEndTime() bool { return f.EndTime > 0 }

// HasLimit reports whether the filter caps the number of delivered messages.
func (f Filter) HasLimit() bool { return f.Limit > 0 }

// ValidationError aggregates every constraint violated by a filter.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid filter: " + strings.Join(e.Violations, ", ")
}

// Validate checks the filter against now and returns a *ValidationError
// listing every violated constraint, or nil when the filter is acceptable.
func (f Filter) Validate(now time.Time) error {
	var v []string
	if f.TopicID <= 0 {
		v = append(v, "topicId must not be null")
	}
	if f.StartTime < 0 {
		v = append(v, "startTime must be greater than or equal to 0")
	}
	if f.Limit < 0 {
		v = append(v, "limit must be greater than or equal to 0")
	}
	if f.HasEndTime() && f.EndTime <= f.StartTime {
		v = append(v, "End time must be after start time")
	}
	if f.StartTime > now.UnixNano() {
		v = append(v, "Start time must be before the current time")
	}
	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}
