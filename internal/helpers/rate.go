package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute throttles periodic diagnostics to at most one run per minute.
var OnceAMinute = onceAMinute()

func onceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		Interval: time.Minute,
	}
}
