// Package bridge serves the loopback HTTP endpoints that callers use to
// move files.
//
// The server decodes a transfer request, resolves every path independently
// with pathresolve, hands the batch to a transfer.Executor once, and answers
// with a single api.BridgeResponse. Application failures are always HTTP 200
// with success=false; only routing problems (404, 405) and non-loopback
// peers (403) produce other status codes.
//
// Each transfer request walks the phases Idle, Parsing, Resolving,
// Executing, Responding, Closed. A request that fails to parse goes straight
// to Responding. Phase changes are logged with the request's correlation id.
//
// GET /ping never touches the resolver or executor, so it keeps answering
// while long transfers run on other connections.
package bridge
