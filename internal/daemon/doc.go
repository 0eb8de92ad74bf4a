// Package daemon coordinates the long-running bridge process.
//
// It wires configuration, the clipboard writer, the transfer executor, and
// the HTTP bridge into a single lifecycle with flock-based locking to prevent
// multiple instances. Because only one daemon can hold the lock, the
// executor's in-process destination locks are enough to serialize writes to
// a directory.
//
// Keep orchestration logic here: request handling lives in the bridge
// package and data movement in transfer, while the daemon focuses on
// startup, shutdown, and status reporting.
package daemon
