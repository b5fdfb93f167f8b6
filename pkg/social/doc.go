// Package social defines the shared domain types for the connect-and-publish
// pipeline: the fixed platform enumeration, connected account records, composed
// posts and per-platform publish results.
//
// The package is intentionally free of behavior beyond small accessors so it can
// be imported by storage, transport and publishing layers without cycles.
package social
