package spotify

import "fmt"

// AuthExchangeError reports a failed authorization-code exchange. Codes are
// single-use upstream, so a retried exchange with a stale code is expected to
// land here.
type AuthExchangeError struct {
	StatusCode int
	Err        error
}

func (e *AuthExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("code exchange failed with status %d", e.StatusCode)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

// TokenRefreshError reports a failed refresh-token exchange. Callers must
// treat it as terminal for the request; there is no retry loop.
type TokenRefreshError struct {
	// Revoked is set when the upstream response indicates the refresh token
	// itself is no longer valid (400/401) rather than a transient failure.
	Revoked bool
	Err     error
}

func (e *TokenRefreshError) Error() string {
	if e.Revoked {
		return fmt.Sprintf("token revoked: %v", e.Err)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *TokenRefreshError) Unwrap() error { return e.Err }

// UpstreamFetchError reports a non-2xx response from a Web API read.
type UpstreamFetchError struct {
	Operation  string
	StatusCode int
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("spotify %s returned status %d", e.Operation, e.StatusCode)
}
