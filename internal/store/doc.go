// Package store provides SQLite-backed durable storage for the workout log.
//
// The store is a single key-value table. The canonical workout collection
// lives under one key as a JSON array, in creation order, with derived
// metrics written as plain values.
//
// # Read and write contracts
//
//   - An absent key loads as an empty collection.
//   - A malformed value loads as an empty collection and returns a
//     *ReadError so callers can log it; it is never surfaced to the user.
//   - Individual records that fail validation on load are skipped.
//   - Every failed write returns a *WriteError. Callers decide whether to
//     notify or retry; a failed write is never reported as success.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
