// Package eventsource implements C1, the OS Event Source: a dedicated
// message-pump thread hosting a global WinEvent hook, normalising raw OS
// event codes into the core's WinEvent enum and multiplexing them to
// subscribers with a copy-on-write subscriber list (§4.1, §5).
package eventsource

import "seelencore/internal/winhandle"

// Kind is the core's normalised event enum (§4.1), exhaustive for the core.
type Kind int

const (
	ObjectCreate Kind = iota
	ObjectShow
	ObjectHide
	ObjectDestroy
	ObjectFocus
	ObjectNameChange
	ObjectParentChange
	ObjectLocationChange
	SystemForeground
	SystemMinimizeStart
	SystemMinimizeEnd
	SystemMoveSizeStart
	SystemMoveSizeEnd
	SyntheticMaximizeStart
	SyntheticMaximizeEnd
	SyntheticFullscreenStart
	SyntheticFullscreenEnd
	SyntheticMonitorChanged
	SyntheticForegroundLocationChange
	DisplayChanged
	SessionSuspend
	SessionResume
	ColorSchemeChanged
	TextScaleChanged
)

func (k Kind) String() string {
	names := [...]string{
		"ObjectCreate", "ObjectShow", "ObjectHide", "ObjectDestroy", "ObjectFocus",
		"ObjectNameChange", "ObjectParentChange", "ObjectLocationChange",
		"SystemForeground", "SystemMinimizeStart", "SystemMinimizeEnd",
		"SystemMoveSizeStart", "SystemMoveSizeEnd",
		"SyntheticMaximizeStart", "SyntheticMaximizeEnd",
		"SyntheticFullscreenStart", "SyntheticFullscreenEnd",
		"SyntheticMonitorChanged", "SyntheticForegroundLocationChange",
		"DisplayChanged", "SessionSuspend", "SessionResume",
		"ColorSchemeChanged", "TextScaleChanged",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Event is a single normalised occurrence delivered to subscribers.
type Event struct {
	Kind   Kind
	Handle winhandle.WindowHandle
}
