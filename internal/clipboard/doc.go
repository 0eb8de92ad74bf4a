// Package clipboard places lists of files on the host clipboard.
//
// Each backend drives the platform's own clipboard helper (osascript on
// macOS, xclip or wl-copy on Linux, PowerShell on Windows) so the result is a
// native file list that pastes as files in Finder, Explorer, or a file
// manager. The memory backend records writes in process and is used by
// tests and headless installs.
package clipboard
