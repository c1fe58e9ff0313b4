// Package id provides identifier generation for blogd.
//
// This is the canonical source for ID generation across the codebase:
//
//   - Sequence: monotonic integer post ids, allocated by the HTTP layer before
//     a post reaches the store
//   - RequestID: random UUID v4 strings used to correlate request logs
//
// The post store never allocates ids itself. Keeping allocation here lets
// seed loading and request conversion share one counter.
package id
