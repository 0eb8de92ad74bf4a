// Package logs reads the daemon's log file for `assetbridge logs`.
//
// Last returns the final N lines with bounded memory, and Follow polls from
// an offset and hands each new line to a callback until its context ends.
// The log pointer is a symlink that moves on every daemon start, so Follow
// reopens by path on each poll and restarts from zero when the file shrinks.
package logs
