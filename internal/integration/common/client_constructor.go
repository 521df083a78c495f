package common

import (
	"net/http"

	"github.com/futig/ticket-classifier/internal/config"
	pkgHTTP "github.com/futig/ticket-classifier/pkg/http"
)

// NewHTTPClient builds the HTTP client handed to provider SDKs
func NewHTTPClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithUserAgent("ticket-classifier"),
		pkgHTTP.WithRequestLogging(),
	)
}
