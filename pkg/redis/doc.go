// Package redis provides connection helpers for the Redis server that backs
// OAuth state storage and token caching.
//
// Connect retries with a configurable interval so the application tolerates a
// Redis instance that is still starting up, and Healthcheck exposes a probe
// for readiness endpoints.
package redis
