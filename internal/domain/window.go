package domain

import "time"

const day = 24 * time.Hour

// Windows holds the anchor instants that bound every upstream query.
type Windows struct {
	Now     time.Time
	Week    time.Time
	Month   time.Time
	Quarter time.Time
}

// NewWindows computes the anchors now, -7d, -30d and -90d.
func NewWindows(now time.Time) Windows {
	return Windows{
		Now:     now,
		Week:    now.Add(-7 * day),
		Month:   now.Add(-30 * day),
		Quarter: now.Add(-90 * day),
	}
}
