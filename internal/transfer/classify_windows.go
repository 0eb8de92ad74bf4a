//go:build windows

package transfer

import "golang.org/x/sys/windows"

var errnoReasons = []errnoReason{
	{windows.ERROR_WRITE_PROTECT, ReasonReadOnly},
	{windows.ERROR_DISK_FULL, ReasonDiskFull},
	{windows.ERROR_HANDLE_DISK_FULL, ReasonDiskFull},
	{windows.ERROR_FILENAME_EXCED_RANGE, ReasonPathTooLong},
	{windows.ERROR_ACCESS_DENIED, ReasonPermission},
}
