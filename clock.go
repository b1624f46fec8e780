package ulora

import "time"

// systemClock is the default Clock, backed by the host's real time.
type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
