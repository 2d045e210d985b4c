//go:build windows

package winapi

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
)

type kbdllhookstruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

var (
	procSetWindowsHookExW   = modUser32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = modUser32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = modUser32.NewProc("CallNextHookEx")

	kbHookMu     sync.Mutex
	kbHookHandle uintptr
	kbHookSink   func(vk uint32, down bool) (swallow bool)
)

func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == 0 && kbHookSink != nil {
		ks := (*kbdllhookstruct)(unsafe.Pointer(lParam))
		switch wParam {
		case wmKeyDown, wmSysKeyDown:
			if kbHookSink(ks.VkCode, true) {
				return 1
			}
		case wmKeyUp, wmSysKeyUp:
			if kbHookSink(ks.VkCode, false) {
				return 1
			}
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

// InstallKeyboardHook installs a low-level keyboard hook on the calling
// thread (must be the thread pumping messages — §4.9 capture mode steals
// the keyboard from the same pump C9 registers hotkeys on). sink is
// invoked for every keydown/keyup with the raw virtual-key code; returning
// true swallows the key so it never reaches the foreground app.
func InstallKeyboardHook(sink func(vk uint32, down bool) (swallow bool)) bool {
	kbHookMu.Lock()
	defer kbHookMu.Unlock()
	if kbHookHandle != 0 {
		return true
	}
	kbHookSink = sink
	cb := windows.NewCallback(keyboardProc)
	h, _, _ := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), cb, 0, 0)
	if h == 0 {
		kbHookSink = nil
		return false
	}
	kbHookHandle = h
	return true
}

// RemoveKeyboardHook uninstalls the hook installed by InstallKeyboardHook.
// Safe to call when no hook is installed.
func RemoveKeyboardHook() {
	kbHookMu.Lock()
	defer kbHookMu.Unlock()
	if kbHookHandle != 0 {
		procUnhookWindowsHookEx.Call(kbHookHandle)
		kbHookHandle = 0
	}
	kbHookSink = nil
}
