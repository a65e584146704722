package service

import "time"

// LivenessWindowSec is the heartbeat age at which a server stops being
// matchable. There is no grace period, one missed heartbeat window excludes
// the server immediately.
const LivenessWindowSec = 60.0

// AgeSeconds returns the age of a heartbeat in seconds.
func AgeSeconds(now, lastSeen time.Time) float64 {
	return now.Sub(lastSeen).Seconds()
}

// IsLive reports whether a server with the given heartbeat may still receive
// new matches.
func IsLive(now, lastSeen time.Time) bool {
	return AgeSeconds(now, lastSeen) < LivenessWindowSec
}
