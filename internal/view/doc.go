// Package view provides headless implementations of the surfaces the
// controller drives: the map, the workout list, the entry form and the
// notification area.
//
// Every type records what was done to it so tests, scenarios and the CLI
// can inspect the rendered state. All types are safe for concurrent use;
// the controller writes from its loop goroutine while callers read.
package view
