// Package social exposes the connect-and-publish pipeline over HTTP: OAuth
// connect redirects and callbacks, connected-account management, and
// publishing with optional scheduling.
//
// The module expects upstream middleware to authenticate the request and put
// the user id into the context via accounts.WithUserID.
package social
