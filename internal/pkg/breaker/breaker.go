package breaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// New returns a circuit breaker that opens once at least 10 requests in the
// current interval have a failure ratio of 50% or more.
func New(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(Settings(name))
}

func Settings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
}
