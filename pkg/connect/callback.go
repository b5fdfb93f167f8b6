package connect

import (
	"fmt"
	"net/url"
)

// CallbackParams carries everything a provider reports on the redirect query.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
	ErrorReason      string
}

// ParseCallback extracts the OAuth callback parameters from a redirect query.
func ParseCallback(q url.Values) CallbackParams {
	return CallbackParams{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
		ErrorReason:      q.Get("error_reason"),
	}
}

// Err maps a provider-reported callback error to the package taxonomy.
// Returns nil when the callback carries no error.
func (p CallbackParams) Err() error {
	if p.Error == "" {
		return nil
	}
	if p.Error == "access_denied" || p.ErrorReason == "user_denied" {
		return ErrConsentDenied
	}

	detail := p.ErrorDescription
	if detail == "" {
		detail = p.ErrorReason
	}
	if detail == "" {
		return fmt.Errorf("%w: %s", ErrProviderError, p.Error)
	}
	return fmt.Errorf("%w: %s: %s", ErrProviderError, p.Error, detail)
}
