// Package accounts persists connected social accounts scoped to the
// authenticated user, with a primary document store and an explicit local
// mirror for degraded-mode operation when the primary denies permission.
package accounts
