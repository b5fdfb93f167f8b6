package connect

import "errors"

var (
	// ErrInvalidState indicates a missing or mismatched CSRF state on callback.
	// The token endpoint must never be called after this error.
	ErrInvalidState = errors.New("invalid OAuth state")

	// ErrVerifierMissing indicates an exchange was attempted for a PKCE
	// provider without a previously stored code verifier.
	ErrVerifierMissing = errors.New("PKCE code verifier not found")

	// ErrInvalidCode indicates the provider rejected the authorization code.
	ErrInvalidCode = errors.New("invalid OAuth code")

	// ErrRefreshUnsupported indicates the provider has no refresh mechanism.
	ErrRefreshUnsupported = errors.New("token refresh not supported by provider")

	// ErrConsentDenied indicates the user declined the provider consent screen.
	ErrConsentDenied = errors.New("user denied consent")

	// ErrProviderError wraps any other error reported on the callback query.
	ErrProviderError = errors.New("provider returned an error")
)
