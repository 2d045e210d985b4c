// Package winapi wraps the raw Win32 calls the shell integration core
// needs: window enumeration and querying, rect get/set, monitor
// enumeration, the WinEvent hook and message pump, global hotkeys, and
// appbar registration. Every exported function has a windows build (real
// syscalls, following the teacher's NewLazySystemDLL/NewProc idiom) and a
// non-windows build (ErrNotSupported stub) so the pure-Go layers above it
// (layout, positioning, eligibility) stay host-OS-independent for testing.
package winapi

import "errors"

// ErrNotSupported is returned by every winapi function on a non-Windows
// build. The core itself is Windows-only (spec.md §1 Non-goals); this
// exists purely so unrelated packages can be exercised by tests on any host.
var ErrNotSupported = errors.New("winapi: not supported on this platform")

// HWND is an opaque native window handle — the core's WindowHandle wraps
// this for cheap identity comparison (see internal/winhandle).
type HWND uintptr

// MonitorHandle is an opaque native monitor handle (HMONITOR).
type MonitorHandle uintptr
