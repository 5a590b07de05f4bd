package google

import "fmt"

// AuthenticationError reports that no usable Google credential is available:
// the token cache is missing, unreadable, or refresh was refused upstream
// (revoked consent). It is not retried automatically; the user has to
// re-authorize out of band.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("google authentication failed: %s: %v (run 'donna auth' to re-authorize)", e.Reason, e.Err)
	}
	return fmt.Sprintf("google authentication failed: %s (run 'donna auth' to re-authorize)", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
