package customHttpClient

import (
	"net/http"

	"github.com/akolanti/GoDocQA/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// GetClient returns the shared client used by the HTTP based model providers.
// Deadlines come from the request context, so the client has no timeout of its own.
func GetClient() *http.Client {
	return pooledClient
}
