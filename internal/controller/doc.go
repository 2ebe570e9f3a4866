// Package controller owns the state of one mapty session and applies user
// and sensor events to it.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every handler runs on the goroutine that called Run, one event at a time.
// The record collection, pending map click, selection, display order and
// pending deletes are touched by nothing else, so no handler needs a lock.
//
// Event Processing Flow:
// 1. Callers enqueue public events (MapClicked, FormSubmitted, DeleteClicked, ...)
// 2. Run dequeues events in FIFO order
// 3. handle routes the event to its handler
// 4. The handler mutates state, writes through to the Persister and re-renders
// 5. Do callers receive the handler's error on a reply channel
//
// Internal Events:
// The Geo Session callback and the delete timer run on other goroutines.
// They never touch state; they enqueue position_acquired, position_failed
// and delete_due events instead. Position events carry the session
// generation and are dropped once a reload has started a newer session.
//
// Deferred Replies:
// A delete answers its caller only after the delay has passed and the
// removal and reload are done. Repeated deletes of a pending workout wait
// for that same removal.
//
// Settled reports when the current Geo Session outcome has been handled,
// which is when stored workouts have been replayed as markers.
package controller
