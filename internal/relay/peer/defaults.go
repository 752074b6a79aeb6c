package peer

import "time"

const (
	defaultFailureThreshold = 3
	defaultProbeInterval    = 30 * time.Second
	defaultProbeTimeout     = 5 * time.Second
	defaultAttemptTimeout   = 10 * time.Second
)
