package gateway

import (
	"net/http"

	"golang.org/x/time/rate"
)

// pacedTransport waits on a token bucket before every request.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newPacedTransport(base http.RoundTripper, limiter *rate.Limiter) *pacedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &pacedTransport{base: base, limiter: limiter}
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
