package rest

import (
	"errors"

	"github.com/kbukum/restkit/httpclient"
)

// Convenience re-exports so REST client users don't need to import
// httpclient for error checking.

// IsUnauthorized checks if the server answered 401.
func IsUnauthorized(err error) bool { return httpclient.IsUnauthorized(err) }

// IsNetwork checks if the call failed in the transport.
func IsNetwork(err error) bool { return httpclient.IsNetwork(err) }

// IsServerError checks if the server answered any other 4xx or a 5xx.
func IsServerError(err error) bool { return errors.Is(err, httpclient.ErrServerError) }

// IsNoConnectivity checks if the call was refused because the network was down.
func IsNoConnectivity(err error) bool { return errors.Is(err, httpclient.ErrNoConnectivity) }
