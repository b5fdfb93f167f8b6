// Package schedule holds posts back until their publish time and dispatches
// them when due.
//
// The Service persists future-dated posts, the Worker polls for due ones on a
// ticker and pushes them through a publishing dispatcher, and the Repository
// guarantees each post is claimed by exactly one worker.
package schedule
