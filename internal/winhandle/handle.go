// Package winhandle defines WindowHandle, the core's opaque window
// identifier (§3 DATA MODEL), and MonitorId/WorkspaceId alongside it so
// every component imports identity types from one place.
package winhandle

import "seelencore/pkg/winapi"

// WindowHandle is an opaque 64-bit OS-given identifier. It is cheap to
// copy and compared only by value — never dereferenced outside the core.
type WindowHandle int64

// Native converts back to the raw HWND for winapi calls.
func (h WindowHandle) Native() winapi.HWND { return winapi.HWND(h) }

// FromNative wraps a raw HWND as a WindowHandle.
func FromNative(h winapi.HWND) WindowHandle { return WindowHandle(h) }

// Zero is the invalid/absent handle.
const Zero WindowHandle = 0

// MonitorId is the stable string identifier derived from a display
// target's hardware path (§3). Replugging the same physical display
// reproduces the same id; two distinct displays never collide.
type MonitorId string

// WorkspaceId is a UUID minted at workspace creation (§3).
type WorkspaceId string
