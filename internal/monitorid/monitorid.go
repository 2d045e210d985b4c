// Package monitorid derives the stable MonitorId (§3) the rest of the core
// keys every per-monitor structure by. The preferred source is the
// hardware device path EnumDisplayDevices reports for the monitor attached
// to a given adapter (survives a replug of the same physical display); when
// that API reports nothing usable — no monitor currently attached, a
// remote-desktop virtual display, a stale handle mid hot-unplug — it falls
// back to a WMI Win32_DesktopMonitor lookup by the adapter's display index (§3
// "falls back to a display-config path lookup"), and finally to the raw
// adapter device name so a monitor is never left without *some* id.
package monitorid

import "seelencore/pkg/winapi"

// Resolve derives a MonitorId for info. Stable across replugs when the
// primary or WMI path resolves; otherwise degrades to info.DeviceName
// (stable only for the current boot/adapter enumeration order).
func Resolve(info winapi.MonitorInfo) string {
	if path, ok := winapi.MonitorDevicePath(info.DeviceName); ok {
		return path
	}
	if path, ok := wmiDevicePath(info.DeviceName); ok {
		return path
	}
	return info.DeviceName
}
