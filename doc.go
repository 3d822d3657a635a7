// Package tiler adapts a query-keyed fetch function into a paginated,
// concurrent, dynamic data source.
//
// Given a stream of control inputs (turn a query's substream on or off,
// evict it, change sort order, change size limits, change the pivot point)
// the engine produces a stream of TiledList snapshots: flat, indexable
// sequences in which each item remembers the query that produced it, and
// contiguous runs of items form tiles (query-chunks).
//
// The package has three cooperating subsystems: an input dispatcher and
// valve layer that multiplexes a single input stream into one child stream
// per live query (dispatcher.go, valve.go), a tiler state machine that
// accumulates those events into cache + order + limiter state and computes
// visible tiles (state.go), and a pivot planner that turns a stream of
// (focus query, pivot request) pairs into dispatcher commands realizing a
// sliding window around the focus (pivot.go).
package tiler
