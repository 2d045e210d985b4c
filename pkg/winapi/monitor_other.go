//go:build !windows

package winapi

import "seelencore/pkg/rect"

// MonitorInfo is the resolved geometry and device path for one monitor.
type MonitorInfo struct {
	Handle      MonitorHandle
	Rect        rect.Rect
	WorkRect    rect.Rect
	DeviceName  string
	ScaleFactor float64
}

func FromWindow(HWND) (MonitorInfo, bool) { return MonitorInfo{}, false }

func EnumMonitors() []MonitorInfo { return nil }

func MonitorDevicePath(adapterDeviceName string) (string, bool) { return "", false }
