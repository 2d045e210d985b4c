//go:build !windows

package monitorid

func wmiDevicePath(adapterDeviceName string) (string, bool) { return "", false }
