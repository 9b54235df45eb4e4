package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Client input errors
	ErrMissingCode  = fmt.Errorf("missing authorization code")
	ErrMissingToken = fmt.Errorf("missing access token")
	ErrInvalidState = fmt.Errorf("invalid state parameter")
	ErrInvalidInput = fmt.Errorf("invalid input")

	// Upstream errors
	ErrUpstreamAuth       = fmt.Errorf("upstream authentication failed")
	ErrUpstreamFetch      = fmt.Errorf("upstream request failed")
	ErrUpstreamCompletion = fmt.Errorf("completion request failed")
)
