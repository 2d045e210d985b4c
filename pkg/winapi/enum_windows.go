//go:build windows

package winapi

import (
	"sync"

	"golang.org/x/sys/windows"
)

// Package-level state for the single reusable EnumWindows callback. The
// callback is created once (sync.Once) because the Go runtime's callback
// table has a fixed ~2000-slot capacity — allocating a fresh
// windows.NewCallback per enumeration would exhaust it under sustained use.
// enumMu serialises access since EnumWindows invokes the callback
// synchronously for the whole walk.
var (
	enumCBOnce sync.Once
	enumCB     uintptr
	enumMu     sync.Mutex
	enumVisit  func(HWND) bool
)

var procEnumWindows = modUser32.NewProc("EnumWindows")

func enumWindowsProc(hwnd uintptr, _ uintptr) uintptr {
	if enumVisit(HWND(hwnd)) {
		return 1 // continue
	}
	return 0 // stop
}

// EnumTopLevelWindows calls visit for every top-level window in z-order
// (top-most first), stopping early if visit returns false.
func EnumTopLevelWindows(visit func(HWND) bool) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumVisit = visit
	enumCBOnce.Do(func() {
		enumCB = windows.NewCallback(enumWindowsProc)
	})
	procEnumWindows.Call(enumCB, 0)
}
