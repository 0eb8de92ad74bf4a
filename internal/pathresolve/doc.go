// Package pathresolve turns caller-supplied path strings into verified
// filesystem paths.
//
// Callers hand the bridge paths in whatever shape their host application
// produced: plain absolute paths, percent-encoded strings, file:// URLs,
// Windows-style backslashes, or a directory with a separately encoded file
// name. Resolve never returns an error; every outcome, including a missing
// file or a malformed escape sequence, is reported on the ResolvedPath value.
//
// Canonical paths always use forward slashes. When the literal decoded path
// does not exist the resolver tries a short, fixed list of alternative
// candidates (undecoded directory with decoded file name, NFC and NFD
// spellings, one extra decode of doubly-encoded input) before giving up.
package pathresolve
