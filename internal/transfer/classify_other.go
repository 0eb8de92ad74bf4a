//go:build !unix && !windows

package transfer

var errnoReasons []errnoReason
