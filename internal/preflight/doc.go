// Package preflight provides readiness checks for the filesystem paths and
// helper binaries the bridge depends on.
//
// These checks run in two contexts:
//   - The daemon logs RunAll results at startup so a misconfigured
//     destination or missing clipboard tool is visible before the first
//     transfer fails.
//   - The CLI "assetbridge status" command renders the same results.
//
// Checks never modify the filesystem; a destination that does not exist yet
// passes when its nearest existing parent is writable.
package preflight
