package outshift

import "errors"

var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrInvalidAgentID   = errors.New("invalid agent ID")
	ErrInvalidDateRange = errors.New("invalid date range")
)
