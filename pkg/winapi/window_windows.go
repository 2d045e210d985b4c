//go:build windows

package winapi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"seelencore/pkg/rect"
)

var (
	modUser32   = windows.NewLazySystemDLL("user32.dll")
	modKernel32 = windows.NewLazySystemDLL("kernel32.dll")
	modDwmapi   = windows.NewLazySystemDLL("dwmapi.dll")

	procIsWindow               = modUser32.NewProc("IsWindow")
	procIsWindowVisible        = modUser32.NewProc("IsWindowVisible")
	procIsIconic               = modUser32.NewProc("IsIconic")
	procIsZoomed               = modUser32.NewProc("IsZoomed")
	procGetWindowLongPtrW      = modUser32.NewProc("GetWindowLongPtrW")
	procGetClassNameW          = modUser32.NewProc("GetClassNameW")
	procGetWindowTextW         = modUser32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW   = modUser32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcess = modUser32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect          = modUser32.NewProc("GetWindowRect")
	procSetWindowPos           = modUser32.NewProc("SetWindowPos")
	procGetAncestor            = modUser32.NewProc("GetAncestor")
	procGetParent              = modUser32.NewProc("GetParent")
	procGetForegroundWindow    = modUser32.NewProc("GetForegroundWindow")
	procSetForegroundWindow    = modUser32.NewProc("SetForegroundWindow")
	procShowWindowCore         = modUser32.NewProc("ShowWindow")
	procIsHungAppWindow        = modUser32.NewProc("IsHungAppWindow")

	procOpenProcess                = modKernel32.NewProc("OpenProcess")
	procCloseHandle                = modKernel32.NewProc("CloseHandle")
	procQueryFullProcessImageNameW = modKernel32.NewProc("QueryFullProcessImageNameW")
	procDwmGetWindowAttribute      = modDwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	GWLExStyle = -20
	GWLStyle   = -16

	WSExToolWindow  = 0x00000080
	WSExAppWindow   = 0x00040000
	WSExNoActivate  = 0x08000000
	WSPopup         = 0x80000000
	WSChild         = 0x40000000
	WSCaption       = 0x00C00000

	swRestoreCore        = 9
	swShowNoActivateCore = 4
	swMinimizeCore       = 6

	processQueryLimitedInformation = 0x1000

	dwmwaCloaked = 14

	gaRoot = 2
)

func IsWindow(h HWND) bool {
	r, _, _ := procIsWindow.Call(uintptr(h))
	return r != 0
}

func IsVisible(h HWND) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(h))
	return r != 0
}

func IsMinimized(h HWND) bool {
	r, _, _ := procIsIconic.Call(uintptr(h))
	return r != 0
}

func IsMaximized(h HWND) bool {
	r, _, _ := procIsZoomed.Call(uintptr(h))
	return r != 0
}

// IsCloaked reports whether DWM is hiding the window (e.g. a suspended UWP
// app or a window on another virtual desktop), used by classify step 1.
func IsCloaked(h HWND) bool {
	var cloaked uint32
	ret, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(h), dwmwaCloaked,
		uintptr(unsafe.Pointer(&cloaked)), unsafe.Sizeof(cloaked),
	)
	return ret == 0 && cloaked != 0
}

func ExStyle(h HWND) uint32 {
	r, _, _ := procGetWindowLongPtrW.Call(uintptr(h), uintptr(GWLExStyle))
	return uint32(r)
}

func Style(h HWND) uint32 {
	r, _, _ := procGetWindowLongPtrW.Call(uintptr(h), uintptr(GWLStyle))
	return uint32(r)
}

func ClassName(h HWND) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func WindowText(h HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	got, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if got == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:got])
}

// ProcessID returns the owning process id for h.
func ProcessID(h HWND) uint32 {
	var pid uint32
	procGetWindowThreadProcess.Call(uintptr(h), uintptr(unsafe.Pointer(&pid)))
	return pid
}

// OpenProcessLimited opens a process handle with
// PROCESS_QUERY_LIMITED_INFORMATION rights (classify step 4: "process
// handle cannot be opened with limited rights"). ok is false if the open
// failed.
func OpenProcessLimited(pid uint32) (handle uintptr, ok bool) {
	h, _, _ := procOpenProcess.Call(uintptr(processQueryLimitedInformation), 0, uintptr(pid))
	return h, h != 0
}

func CloseProcessHandle(h uintptr) {
	if h != 0 {
		procCloseHandle.Call(h)
	}
}

// ImageBaseName returns the process's image file name (e.g. "explorer.exe")
// given an already-open limited-rights process handle.
func ImageBaseName(procHandle uintptr) (string, error) {
	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	r, _, err := procQueryFullProcessImageNameW.Call(
		procHandle, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)),
	)
	if r == 0 {
		return "", err
	}
	full := syscall.UTF16ToString(buf[:size])
	return baseName(full), nil
}

// FullImageName returns the process's full image path (e.g.
// "C:\Windows\explorer.exe") given an already-open limited-rights process
// handle, for matcher rules that key on a full path rather than a bare exe
// name (settings.FieldPath).
func FullImageName(procHandle uintptr) (string, error) {
	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	r, _, err := procQueryFullProcessImageNameW.Call(
		procHandle, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)),
	)
	if r == 0 {
		return "", err
	}
	return syscall.UTF16ToString(buf[:size]), nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// GetRect reads the window's current screen rect.
func GetRect(h HWND) (rect.Rect, error) {
	var r windows.Rect
	ret, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return rect.Rect{}, err
	}
	return rect.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}, nil
}

const (
	swpNoZOrder       = 0x0004
	swpNoActivate     = 0x0010
	swpNoSize         = 0x0001
	swpNoMove         = 0x0002
	swpFrameChanged   = 0x0020
	swpAsyncWindowPos = 0x4000
)

// SetPosition moves/resizes h to r. If noResize is true, only the position
// (top-left) is applied and size is left unchanged (used by the animator
// when only position is changing, per §4.6 step 4). activate controls
// whether the window is brought to the foreground (UWP frame-host windows
// need activation to repaint correctly while dragging; see is_explorer in
// the animator).
func SetPosition(h HWND, r rect.Rect, activate, noResize bool) error {
	flags := uintptr(swpNoZOrder | swpAsyncWindowPos)
	if !activate {
		flags |= swpNoActivate
	}
	w, ht := r.Width(), r.Height()
	if noResize {
		flags |= swpNoSize
		w, ht = 0, 0
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(h), 0,
		uintptr(r.Left), uintptr(r.Top), uintptr(w), uintptr(ht),
		flags,
	)
	if ret == 0 {
		return err
	}
	return nil
}

// MoveOffscreen relocates h far outside the visible desktop without
// resizing it — used to hide a window "without notify" for workspace
// emulation (§4.4 design rationale).
func MoveOffscreen(h HWND, width, height int32) error {
	if width <= 0 {
		width = 2000
	}
	if height <= 0 {
		height = 2000
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(h), 0,
		uintptr(int32(-(width*3))), uintptr(int32(-(height*3))), 0, 0,
		swpNoZOrder|swpNoSize|swpNoActivate|swpAsyncWindowPos,
	)
	if ret == 0 {
		return err
	}
	return nil
}

// ForceRedraw issues a no-op move/resize with SWP_FRAMECHANGED, the
// animator's last step once a window reaches its final rect — Win32
// occasionally leaves a stale frame cached after a burst of async
// SetWindowPos calls, and this forces the repaint (§4.6 step 6).
func ForceRedraw(h HWND) {
	procSetWindowPos.Call(
		uintptr(h), 0, 0, 0, 0, 0,
		swpNoZOrder|swpNoMove|swpNoSize|swpNoActivate|swpFrameChanged,
	)
}

func ShowNoActivate(h HWND) {
	procShowWindowCore.Call(uintptr(h), swShowNoActivateCore)
}

func RestoreNoActivate(h HWND) {
	procShowWindowCore.Call(uintptr(h), swRestoreCore)
}

func Minimize(h HWND) {
	procShowWindowCore.Call(uintptr(h), swMinimizeCore)
}

// RootOwner resolves the UWP "frame creator" root ancestor for h (glossary:
// Frame creator / frame host), used by classify step 7.
func RootOwner(h HWND) HWND {
	r, _, _ := procGetAncestor.Call(uintptr(h), uintptr(gaRoot))
	return HWND(r)
}

func Parent(h HWND) HWND {
	r, _, _ := procGetParent.Call(uintptr(h))
	return HWND(r)
}

func ForegroundWindow() HWND {
	r, _, _ := procGetForegroundWindow.Call()
	return HWND(r)
}

func SetForeground(h HWND) bool {
	r, _, _ := procSetForegroundWindow.Call(uintptr(h))
	return r != 0
}

// IsFrozen reports whether the window's message loop is not pumping
// (classify step 6: "process is reported frozen").
func IsFrozen(h HWND) bool {
	r, _, _ := procIsHungAppWindow.Call(uintptr(h))
	return r != 0
}
