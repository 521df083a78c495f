package http

import (
	"net/http"
	"time"
)

// Option tunes the outbound client built by NewClient
type Option func(*clientConfig)

// WithRequestTimeout bounds the whole exchange, body included
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

func WithConnClientTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.dialTimeout = timeout
	}
}

func WithClientKeepAlive(keepAlive time.Duration) Option {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

// WithUserAgent stamps every request that does not already carry a User-Agent
func WithUserAgent(agent string) Option {
	return withMiddleware(func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if agent == "" || req.Header.Get("User-Agent") != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", agent)
			return next.RoundTrip(req)
		})
	})
}

// WithRequestLogging logs method, URL, headers and status of every outbound call at debug
// level. Credential headers are redacted.
func WithRequestLogging() Option {
	return withMiddleware(func(next http.RoundTripper) http.RoundTripper {
		return &logTransport{transport: next}
	})
}

func withMiddleware(mw middleware) Option {
	return func(c *clientConfig) {
		c.middlewares = append(c.middlewares, mw)
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
