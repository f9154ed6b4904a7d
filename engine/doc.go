// Package engine drives the read, process, write and analyze cycle of the
// effector.
//
// One Engine owns a Stream, an effect chain, the sliding analysis window and
// the spectral analyzers. Cycle runs exactly one block through all four
// phases; Run paces cycles on a ticker until the context is cancelled or the
// stream fails. Each completed cycle publishes a Snapshot that a display
// goroutine can read with Latest.
//
// Malformed input blocks are dropped and counted without stopping the
// engine. Stream failures and internal length mismatches are fatal: the
// stream is closed and the error is returned.
package engine
