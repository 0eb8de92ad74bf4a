//go:build unix

package transfer

import "golang.org/x/sys/unix"

var errnoReasons = []errnoReason{
	{unix.EROFS, ReasonReadOnly},
	{unix.ENOSPC, ReasonDiskFull},
	{unix.EDQUOT, ReasonDiskFull},
	{unix.EFBIG, ReasonDiskFull},
	{unix.ENAMETOOLONG, ReasonPathTooLong},
	{unix.EACCES, ReasonPermission},
	{unix.EPERM, ReasonPermission},
}
