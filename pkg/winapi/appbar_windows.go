//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"seelencore/pkg/rect"
)

var procSHAppBarMessage = windows.NewLazySystemDLL("shell32.dll").NewProc("SHAppBarMessage")

const (
	abmNew         = 0x00000000
	abmRemove      = 0x00000001
	abmQueryPos    = 0x00000002
	abmSetPos      = 0x00000003
	abmActivate    = 0x00000006
	abmGetTaskbarPos = 0x00000005
)

// AppBarEdge mirrors the ABE_* constants SHAppBarMessage expects.
type AppBarEdge uint32

const (
	EdgeLeft   AppBarEdge = 0
	EdgeTop    AppBarEdge = 1
	EdgeRight  AppBarEdge = 2
	EdgeBottom AppBarEdge = 3
)

type appBarData struct {
	cbSize           uint32
	hWnd             uintptr
	uCallbackMessage uint32
	uEdge            uint32
	rc               windows.Rect
	lParam           uintptr
}

// RegisterAppBar claims edge real estate at r for window h, so the OS
// reserves desktop work-area space for it (used when a bar's hide_mode is
// Never, per §4.7).
func RegisterAppBar(h HWND, edge AppBarEdge, r rect.Rect) bool {
	data := appBarData{uEdge: uint32(edge), rc: windows.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}}
	data.cbSize = uint32(unsafe.Sizeof(data))
	data.hWnd = uintptr(h)

	ret, _, _ := procSHAppBarMessage.Call(abmNew, uintptr(unsafe.Pointer(&data)))
	if ret == 0 {
		return false
	}
	procSHAppBarMessage.Call(abmQueryPos, uintptr(unsafe.Pointer(&data)))
	procSHAppBarMessage.Call(abmSetPos, uintptr(unsafe.Pointer(&data)))
	procSHAppBarMessage.Call(abmActivate, uintptr(unsafe.Pointer(&data)))
	return true
}

// UnregisterAppBar releases previously claimed real estate.
func UnregisterAppBar(h HWND) {
	data := appBarData{hWnd: uintptr(h)}
	data.cbSize = uint32(unsafe.Sizeof(data))
	procSHAppBarMessage.Call(abmRemove, uintptr(unsafe.Pointer(&data)))
}
