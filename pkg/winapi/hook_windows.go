//go:build windows

package winapi

import (
	"errors"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// RawEvent is a single WinEvent hook callback invocation, before C1
// normalises it into the core's WinEvent enum.
type RawEvent struct {
	EventID uint32
	Hwnd    HWND
	ObjectID int32
	ChildID  int32
}

// WinEvent hook event ids the core subscribes to (a superset; C1 filters).
const (
	EventObjectCreate        = 0x8000
	EventObjectDestroy       = 0x8001
	EventObjectShow          = 0x8002
	EventObjectHide          = 0x8003
	EventObjectFocus         = 0x8005
	EventObjectLocationChange = 0x800B
	EventObjectNameChange    = 0x800C
	EventObjectParentChange  = 0x800F
	EventSystemForeground    = 0x0003
	EventSystemMinimizeStart = 0x0016
	EventSystemMinimizeEnd   = 0x0017
	EventSystemMoveSizeStart = 0x000A
	EventSystemMoveSizeEnd   = 0x000B

	winEventOutOfContext = 0x0000
	objIDWindow          = 0
)

var (
	modOle32 = windows.NewLazySystemDLL("ole32.dll")

	procSetWinEventHook   = modUser32.NewProc("SetWinEventHook")
	procUnhookWinEvent    = modUser32.NewProc("UnhookWinEvent")
	procGetMessageW       = modUser32.NewProc("GetMessageW")
	procTranslateMessage  = modUser32.NewProc("TranslateMessage")
	procDispatchMessageW  = modUser32.NewProc("DispatchMessageW")
	procPostThreadMessage = modUser32.NewProc("PostThreadMessageW")
	procPostQuitMessage   = modUser32.NewProc("PostQuitMessage")
	procGetCurrentThreadIDHook = modKernel32.NewProc("GetCurrentThreadId")
	procGetModuleHandleW  = modKernel32.NewProc("GetModuleHandleW")
	procRegisterClassExW  = modUser32.NewProc("RegisterClassExW")
	procCreateWindowExW   = modUser32.NewProc("CreateWindowExW")
	procDestroyWindow     = modUser32.NewProc("DestroyWindow")
	procDefWindowProcW    = modUser32.NewProc("DefWindowProcW")
)

const wmQuit = 0x0012

// Window messages the sibling hidden top-level window (sysEventProc) reacts
// to — these are broadcast messages, not WinEvent hook notifications, so
// they need their own window to land on (§4.1's DisplayChanged/
// SessionSuspend/SessionResume/ColorSchemeChanged/TextScaleChanged kinds).
// Exported so eventsource (a different package) can classify the SysEvents
// this pump emits without this package needing to know about C1's Kind enum.
const (
	WMDisplayChange  = 0x007E
	WMPowerBroadcast = 0x0218
	WMSettingChange  = 0x001A

	PBTAPMSuspend         = 0x0004
	PBTAPMResumeSuspend   = 0x0007
	PBTAPMResumeAutomatic = 0x0012
)

// SysEvent is one broadcast system message the hidden window observed.
type SysEvent struct {
	Msg     uint32
	WParam  uintptr
	Setting string // populated for WM_SETTINGCHANGE; empty otherwise
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

var (
	hookMu      sync.Mutex
	hookCB      uintptr
	hookHandles []uintptr
	hookSink    func(RawEvent)
	sysSink     func(SysEvent)
)

func winEventProc(_ uintptr, event uint32, hwnd uintptr, idObject, idChild int32, _ uintptr, _ uint32) uintptr {
	if idObject != objIDWindow {
		return 0
	}
	if hookSink != nil {
		hookSink(RawEvent{EventID: event, Hwnd: HWND(hwnd), ObjectID: idObject, ChildID: idChild})
	}
	return 0
}

type wndClassExW struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

var sysEventClassName = windows.StringToUTF16Ptr("SeelenCoreSysEventWindow")

func sysEventWndProc(hwnd uintptr, msg uint32, wparam, lparam uintptr) uintptr {
	switch msg {
	case WMDisplayChange, WMPowerBroadcast:
		if sysSink != nil {
			sysSink(SysEvent{Msg: msg, WParam: wparam})
		}
	case WMSettingChange:
		var setting string
		if lparam != 0 {
			setting = windows.UTF16PtrToString((*uint16)(unsafe.Pointer(lparam)))
		}
		if sysSink != nil {
			sysSink(SysEvent{Msg: msg, WParam: wparam, Setting: setting})
		}
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wparam, lparam)
	return ret
}

// createSysEventWindow registers (once) and creates a hidden, never-shown
// top-level window on the calling thread so the broadcast messages
// WM_DISPLAYCHANGE/WM_POWERBROADCAST/WM_SETTINGCHANGE — none of which are
// WinEvent hook notifications — land somewhere. It must be created on the
// same thread that runs the message loop, since GetMessageW(hwnd=0) only
// retrieves messages for windows owned by the calling thread.
func createSysEventWindow() (uintptr, error) {
	hInstance, _, _ := procGetModuleHandleW.Call(0)

	wc := wndClassExW{
		lpfnWndProc:   windows.NewCallback(sysEventWndProc),
		hInstance:     windows.Handle(hInstance),
		lpszClassName: sysEventClassName,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	// RegisterClassExW failing with "class already exists" (e.g. a prior
	// Start/Stop cycle within the same process) is expected and harmless.

	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(sysEventClassName)),
		0, 0,
		0, 0, 0, 0,
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		return 0, errors.New("winapi: CreateWindowExW failed for system-event window")
	}
	return hwnd, nil
}

// RunMessagePump installs a WinEvent hook spanning [eventMin, eventMax], a
// hidden window for broadcast system messages, and blocks pumping messages
// — forwarding hook callbacks to sink and broadcast messages to sysEvents —
// until quit is closed. Must be run on a dedicated OS thread
// (runtime.LockOSThread) — this is the C1 "single dedicated thread hosting
// an OS message pump plus a global window-event hook" (§4.1/§5). sysEvents
// may be nil if the caller doesn't need DisplayChanged/SessionSuspend/
// SessionResume/ColorSchemeChanged/TextScaleChanged.
func RunMessagePump(eventMin, eventMax uint32, sink func(RawEvent), sysEvents func(SysEvent), quit <-chan struct{}) error {
	hookMu.Lock()
	hookSink = sink
	sysSink = sysEvents
	cb := windows.NewCallback(winEventProc)
	hook, _, _ := procSetWinEventHook.Call(
		uintptr(eventMin), uintptr(eventMax), 0, cb, 0, 0, winEventOutOfContext,
	)
	if hook == 0 {
		hookMu.Unlock()
		return ErrHookInstallFailed
	}
	hookHandles = append(hookHandles, hook)
	hookMu.Unlock()

	sysHwnd, err := createSysEventWindow()
	if err != nil {
		// Non-fatal: the core still gets every WinEvent-hook-sourced kind,
		// it just loses the broadcast-only ones.
		sysHwnd = 0
	}

	tid, _, _ := procGetCurrentThreadIDHook.Call()

	go func() {
		<-quit
		procPostThreadMessage.Call(tid, wmQuit, 0, 0)
	}()

	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	if sysHwnd != 0 {
		procDestroyWindow.Call(sysHwnd)
	}
	procUnhookWinEvent.Call(hook)
	return nil
}

// ErrHookInstallFailed is returned when SetWinEventHook itself fails — a
// fatal startup failure per §7.5.
var ErrHookInstallFailed = errors.New("winapi: SetWinEventHook failed")
