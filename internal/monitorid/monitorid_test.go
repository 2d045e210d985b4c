//go:build !windows

package monitorid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/pkg/winapi"
)

// On non-Windows builds winapi.MonitorDevicePath and wmiDevicePath are both
// stubs that always report "not found", so Resolve always degrades to the
// raw adapter device name — the last fallback described in the package doc.
func TestResolveFallsBackToDeviceName(t *testing.T) {
	info := winapi.MonitorInfo{DeviceName: `\\.\DISPLAY1`}
	require.Equal(t, `\\.\DISPLAY1`, Resolve(info))
}

func TestResolveDistinguishesAdapters(t *testing.T) {
	a := winapi.MonitorInfo{DeviceName: `\\.\DISPLAY1`}
	b := winapi.MonitorInfo{DeviceName: `\\.\DISPLAY2`}
	require.NotEqual(t, Resolve(a), Resolve(b))
}
