package statestore

import "github.com/dmitrymomot/publishkit/pkg/social"

// Key scheme for platform-scoped entries. Kept compatible with the historical
// local-storage layout so records written by older clients remain readable.
const (
	stateKeySuffix    = "_oauth_state"
	verifierKeySuffix = "_code_verifier"
	tokenKeySuffix    = "_token"
	accountKeyPrefix  = "social_account_"
)

// StateKey returns the storage key for a platform's CSRF state.
func StateKey(p social.Platform) string {
	return string(p) + stateKeySuffix
}

// VerifierKey returns the storage key for a platform's PKCE code verifier.
func VerifierKey(p social.Platform) string {
	return string(p) + verifierKeySuffix
}

// TokenKey returns the storage key for a platform's cached access token.
func TokenKey(p social.Platform) string {
	return string(p) + tokenKeySuffix
}

// AccountKey returns the storage key for a platform's locally mirrored account.
func AccountKey(p social.Platform) string {
	return accountKeyPrefix + string(p)
}
