// Package mongo provides connection helpers for the MongoDB cluster that
// stores connected social accounts and scheduled posts.
package mongo
