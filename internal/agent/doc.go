// Package agent owns the controller session.
//
// Ownership boundary:
// - connection manager (dial, bounded poll, read/write)
// - header sequencer
// - entity-class dispatch table
// - session loop lifecycle
//
// One goroutine runs the session loop for the lifetime of the agent; no
// component in this package is safe for concurrent use beyond that.
package agent
