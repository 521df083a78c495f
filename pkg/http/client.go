package http

import (
	"net"
	"net/http"
	"time"
)

type middleware func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	requestTimeout        time.Duration
	dialTimeout           time.Duration
	keepAlive             time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	middlewares           []middleware
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		requestTimeout:        60 * time.Second,
		dialTimeout:           10 * time.Second,
		keepAlive:             90 * time.Second,
		responseHeaderTimeout: 60 * time.Second,
		idleConnTimeout:       90 * time.Second,
	}
}

// NewClient builds an HTTP client for outbound provider calls.
// Middlewares wrap the transport in the order the options were given,
// so the last one sees the request first.
func NewClient(opts ...Option) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.dialTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}

	for _, mw := range cfg.middlewares {
		transport = mw(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}
