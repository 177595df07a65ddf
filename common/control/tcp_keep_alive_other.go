//go:build unix && !linux && !darwin

package control

import "time"

// SetKeepAlivePeriod leaves the system keep-alive timers untouched on this platform.
func SetKeepAlivePeriod(idle time.Duration, interval time.Duration) Func {
	return nil
}
