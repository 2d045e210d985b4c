//go:build windows

package monitorid

import (
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// wmiDevicePath looks up adapterDeviceName's (e.g. "\\.\DISPLAY1") monitor
// via WMI's Win32_DesktopMonitor class, ordered the same way Windows numbers
// \\.\DISPLAYn adapters, and returns its PNPDeviceID. This is the fallback
// path EnumDisplayDevices leaves us when no monitor is currently reported
// attached to that adapter (virtual/remote-desktop displays, or a hot-unplug
// race).
func wmiDevicePath(adapterDeviceName string) (string, bool) {
	index, ok := displayIndex(adapterDeviceName)
	if !ok {
		return "", false
	}

	if err := ole.CoInitialize(0); err != nil {
		return "", false
	}
	defer ole.CoUninitialize()

	locatorUnknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return "", false
	}
	defer locatorUnknown.Release()

	locator, err := locatorUnknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", false
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer")
	if err != nil {
		return "", false
	}
	service := serviceRaw.ToIDispatch()
	defer serviceRaw.Clear()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", "SELECT PNPDeviceID FROM Win32_DesktopMonitor")
	if err != nil {
		return "", false
	}
	result := resultRaw.ToIDispatch()
	defer resultRaw.Clear()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return "", false
	}
	count := int(countVar.Val)
	countVar.Clear()
	if index >= count {
		return "", false
	}

	itemRaw, err := oleutil.CallMethod(result, "ItemIndex", index)
	if err != nil {
		return "", false
	}
	item := itemRaw.ToIDispatch()
	defer itemRaw.Clear()

	idVar, err := oleutil.GetProperty(item, "PNPDeviceID")
	if err != nil {
		return "", false
	}
	defer idVar.Clear()

	id := idVar.ToString()
	if id == "" {
		return "", false
	}
	return id, true
}

// displayIndex extracts the zero-based adapter index from a
// "\\.\DISPLAYn" device name.
func displayIndex(adapterDeviceName string) (int, bool) {
	const prefix = `\\.\DISPLAY`
	if !strings.HasPrefix(adapterDeviceName, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(adapterDeviceName[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
