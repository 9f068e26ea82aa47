package shared

import (
	"time"
)

// SessionFilter provides filtering options for listing session analytics
type SessionFilter struct {
	BrandID   string
	SessionID string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}
