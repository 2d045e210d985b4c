//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"seelencore/pkg/rect"
)

var (
	procMonitorFromWindow   = modUser32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW     = modUser32.NewProc("GetMonitorInfoW")
	procEnumDisplayMonitors = modUser32.NewProc("EnumDisplayMonitors")
	procGetDpiForMonitor    = windows.NewLazySystemDLL("shcore.dll").NewProc("GetDpiForMonitor")
	procEnumDisplayDevicesW = modUser32.NewProc("EnumDisplayDevicesW")
)

const (
	displayDeviceAttachedToDesktop = 0x00000001
	edd_GetDeviceInterfaceName     = 0x00000001
)

type displayDeviceW struct {
	cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

const monitorDefaultToNearest = 2

type monitorInfoEx struct {
	cbSize    uint32
	rcMonitor windows.Rect
	rcWork    windows.Rect
	dwFlags   uint32
	szDevice  [32]uint16
}

// MonitorInfo is the resolved geometry and device path for one monitor.
type MonitorInfo struct {
	Handle      MonitorHandle
	Rect        rect.Rect
	WorkRect    rect.Rect
	DeviceName  string
	ScaleFactor float64
}

// FromWindow returns the monitor hosting h, or the nearest one if h is
// off-screen (MONITOR_DEFAULTTONEAREST).
func FromWindow(h HWND) (MonitorInfo, bool) {
	hMonitor, _, _ := procMonitorFromWindow.Call(uintptr(h), monitorDefaultToNearest)
	if hMonitor == 0 {
		return MonitorInfo{}, false
	}
	return infoFromHandle(MonitorHandle(hMonitor))
}

func infoFromHandle(h MonitorHandle) (MonitorInfo, bool) {
	var mi monitorInfoEx
	mi.cbSize = uint32(unsafe.Sizeof(mi))
	ret, _, _ := procGetMonitorInfoW.Call(uintptr(h), uintptr(unsafe.Pointer(&mi)))
	if ret == 0 {
		return MonitorInfo{}, false
	}

	scale := 1.0
	var dpiX, dpiY uint32
	// MDT_EFFECTIVE_DPI = 0
	if r, _, _ := procGetDpiForMonitor.Call(uintptr(h), 0, uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY))); r == 0 && dpiX > 0 {
		scale = float64(dpiX) / 96.0
	}

	return MonitorInfo{
		Handle:      h,
		Rect:        rect.Rect{Left: mi.rcMonitor.Left, Top: mi.rcMonitor.Top, Right: mi.rcMonitor.Right, Bottom: mi.rcMonitor.Bottom},
		WorkRect:    rect.Rect{Left: mi.rcWork.Left, Top: mi.rcWork.Top, Right: mi.rcWork.Right, Bottom: mi.rcWork.Bottom},
		DeviceName:  windows.UTF16ToString(mi.szDevice[:]),
		ScaleFactor: scale,
	}, true
}

// MonitorDevicePath resolves the stable hardware DeviceID for the monitor
// attached to adapterDeviceName (a MonitorInfo.DeviceName such as
// "\\.\DISPLAY1"), e.g. "MONITOR\ACI27EC\{4d36e96e-...}\0001". This id
// survives a replug of the same physical display and is the preferred
// MonitorId source (§3); callers fall back to a WMI lookup when it fails
// (no monitor currently attached to that adapter, remote-desktop virtual
// displays, etc).
func MonitorDevicePath(adapterDeviceName string) (string, bool) {
	adapterNamePtr, err := windows.UTF16PtrFromString(adapterDeviceName)
	if err != nil {
		return "", false
	}

	var monitor displayDeviceW
	monitor.cb = uint32(unsafe.Sizeof(monitor))
	ret, _, _ := procEnumDisplayDevicesW.Call(
		uintptr(unsafe.Pointer(adapterNamePtr)), 0,
		uintptr(unsafe.Pointer(&monitor)), edd_GetDeviceInterfaceName,
	)
	if ret == 0 || monitor.StateFlags&displayDeviceAttachedToDesktop == 0 {
		return "", false
	}
	id := windows.UTF16ToString(monitor.DeviceID[:])
	if id == "" {
		return "", false
	}
	return id, true
}

// EnumMonitors returns every connected monitor's resolved info.
func EnumMonitors() []MonitorInfo {
	var out []MonitorInfo
	cb := windows.NewCallback(func(hMonitor, _, _, _ uintptr) uintptr {
		if info, ok := infoFromHandle(MonitorHandle(hMonitor)); ok {
			out = append(out, info)
		}
		return 1
	})
	procEnumDisplayMonitors.Call(0, 0, cb, 0)
	return out
}
