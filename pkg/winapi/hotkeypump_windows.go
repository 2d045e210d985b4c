//go:build windows

package winapi

import "unsafe"

// WM_HOTKEY and the application-defined message C9 uses to ask its pump
// thread to re-read settings and re-register (RegisterHotKey/
// UnregisterHotKey must run on the thread that will receive WM_HOTKEY).
const (
	wmHotkey        = 0x0312
	wmAppReregister = 0x8000 + 1 // WM_APP + 1
)

// RunHotkeyPump runs a dedicated GetMessage loop on the calling OS thread
// (the caller must have called runtime.LockOSThread) until quit is closed.
// threadID receives the pump's thread id once the loop is ready, so
// PostReregister can target it. onStart runs once, on this thread, before
// the loop starts (the initial RegisterHotKey pass must share this
// thread's identity just like every later one). onHotkey is invoked with
// the WM_HOTKEY id (wParam) for every fired hotkey; onReregister is
// invoked for every PostReregister request.
func RunHotkeyPump(onStart func(), onHotkey func(id int), onReregister func(), threadID chan<- uint32, quit <-chan struct{}) {
	tid, _, _ := procGetCurrentThreadIDHook.Call()
	threadID <- uint32(tid)

	if onStart != nil {
		onStart()
	}

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
		switch m.Message {
		case wmHotkey:
			if onHotkey != nil {
				onHotkey(int(m.WParam))
			}
		case wmAppReregister:
			if onReregister != nil {
				onReregister()
			}
		default:
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
		}
	}
}

// PostReregister asks the pump thread identified by threadID (as delivered
// through RunHotkeyPump's channel) to re-register its hotkeys.
func PostReregister(threadID uint32) {
	procPostThreadMessage.Call(uintptr(threadID), wmAppReregister, 0, 0)
}
