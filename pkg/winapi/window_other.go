//go:build !windows

package winapi

import "seelencore/pkg/rect"

func IsWindow(HWND) bool      { return false }
func IsVisible(HWND) bool     { return false }
func IsMinimized(HWND) bool   { return false }
func IsMaximized(HWND) bool   { return false }
func IsCloaked(HWND) bool     { return false }
func ExStyle(HWND) uint32     { return 0 }
func Style(HWND) uint32       { return 0 }
func ClassName(HWND) string   { return "" }
func WindowText(HWND) string  { return "" }
func ProcessID(HWND) uint32   { return 0 }

func OpenProcessLimited(uint32) (uintptr, bool) { return 0, false }
func CloseProcessHandle(uintptr)                {}
func ImageBaseName(uintptr) (string, error)     { return "", ErrNotSupported }
func FullImageName(uintptr) (string, error)     { return "", ErrNotSupported }

func GetRect(HWND) (rect.Rect, error) { return rect.Rect{}, ErrNotSupported }
func SetPosition(HWND, rect.Rect, bool, bool) error { return ErrNotSupported }
func MoveOffscreen(HWND, int32, int32) error        { return ErrNotSupported }
func ForceRedraw(HWND)                              {}

func ShowNoActivate(HWND)    {}
func RestoreNoActivate(HWND) {}
func Minimize(HWND)          {}

func RootOwner(HWND) HWND { return 0 }
func Parent(HWND) HWND    { return 0 }

func ForegroundWindow() HWND  { return 0 }
func SetForeground(HWND) bool { return false }
func IsFrozen(HWND) bool      { return false }

const (
	GWLExStyle = -20
	GWLStyle   = -16

	WSExToolWindow = 0x00000080
	WSExAppWindow  = 0x00040000
	WSExNoActivate = 0x08000000
	WSPopup        = 0x80000000
	WSChild        = 0x40000000
	WSCaption      = 0x00C00000
)
