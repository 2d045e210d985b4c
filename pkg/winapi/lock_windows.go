//go:build windows

package winapi

import (
	"errors"

	"golang.org/x/sys/windows"
)

// AcquireSingleInstanceMutex claims a process-wide named mutex. held is
// false when another process already owns name — the caller's startup
// sequence treats that as "another instance of this session is already
// running" and exits (§4.10 startup step 2). release must be called exactly
// once when held is true, and is a no-op otherwise.
func AcquireSingleInstanceMutex(name string) (held bool, release func(), err error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return false, func() {}, err
	}

	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil && !errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		return false, func() {}, err
	}
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		windows.CloseHandle(handle)
		return false, func() {}, nil
	}

	release = func() {
		windows.ReleaseMutex(handle)
		windows.CloseHandle(handle)
	}
	return true, release, nil
}
