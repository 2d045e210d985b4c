package orchestrator

import (
	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// osHideShow implements workspace.HideShow directly against the OS: Hide
// minimizes the window (triggering the SystemMinimizeStart WinEvent that
// workspace.Manager already told C1 to skip), Show restores it without
// stealing focus (SystemMinimizeEnd), and Focus brings a single window to
// the foreground once the rest of a workspace switch's restores have
// landed. Using minimize/restore rather than moving the window off-screen
// means Windows' own taskbar/Alt+Tab/snap bookkeeping for the window stays
// consistent with what the user sees.
type osHideShow struct{}

func (osHideShow) Hide(h winhandle.WindowHandle) {
	winapi.Minimize(h.Native())
}

func (osHideShow) Show(h winhandle.WindowHandle) {
	winapi.RestoreNoActivate(h.Native())
}

func (osHideShow) Focus(h winhandle.WindowHandle) {
	winapi.SetForeground(h.Native())
}
