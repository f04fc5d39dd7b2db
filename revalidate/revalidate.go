// Package revalidate notifies an external page cache that a profile page
// went stale. The notification is best-effort: mutations must never fail or
// slow down because the cache host is unreachable, so calls run behind a
// circuit breaker and errors are only logged.
package revalidate

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"resty.dev/v3"
)

// Hook calls out to the revalidation endpoint of the rendering layer.
// A nil Hook is valid and does nothing, which is how a deployment without
// a rendering cache runs.
type Hook struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHook returns a Hook posting to the given base URL,
// or nil when no URL is configured.
func NewHook(baseURL string) *Hook {
	if baseURL == "" {
		return nil
	}
	return &Hook{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5 * time.Second),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "Revalidate",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logrus.Infof("circuit breaker %q changed from %q to %q", name, from, to)
			},
		}),
	}
}

// ProfileUpdated asks the rendering layer to rebuild a user's profile page.
// Safe to call on a nil Hook. Callers are expected to run it in its own
// goroutine, failure never propagates.
func (h *Hook) ProfileUpdated(userID string) {
	if h == nil {
		return
	}
	_, err := h.breaker.Execute(func() (interface{}, error) {
		res, err := h.client.R().
			SetBody(map[string]string{"path": "/profile/" + userID}).
			Post("/revalidate")
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			return nil, &StatusError{Status: res.Status()}
		}
		return nil, nil
	})
	if err != nil {
		logrus.WithField("user_id", userID).Warnf("profile revalidation failed: %v", err)
	}
}

// StatusError reports a non-2xx reply from the revalidation endpoint.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return "revalidate: unexpected status " + e.Status
}
