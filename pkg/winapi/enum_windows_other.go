//go:build !windows

package winapi

// EnumTopLevelWindows is a no-op on non-Windows builds.
func EnumTopLevelWindows(visit func(HWND) bool) {}
