// Package main hosts the assetbridge CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the bridge in the foreground, manages a
// detached daemon, renders status, and sends transfer requests to a running
// bridge over loopback HTTP. It centralizes configuration resolution and
// bridge address discovery so subcommands can focus on output.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
