// Package publish fans composed posts out to the connected social platforms.
//
// The Dispatcher owns the batch contract: one result per requested platform in
// input order, independent per-platform execution, and no escaping errors.
// Per-platform Publishers own the platform rules: the 280-character tweet
// limit, Instagram's media requirement, and the provider-specific publish
// endpoints.
package publish
