//go:build !windows

package winapi

import "seelencore/pkg/rect"

type AppBarEdge uint32

const (
	EdgeLeft   AppBarEdge = 0
	EdgeTop    AppBarEdge = 1
	EdgeRight  AppBarEdge = 2
	EdgeBottom AppBarEdge = 3
)

func RegisterAppBar(h HWND, edge AppBarEdge, r rect.Rect) bool { return false }
func UnregisterAppBar(h HWND)                                  {}
