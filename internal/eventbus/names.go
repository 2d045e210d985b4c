// Package eventbus declares the stable outbound event names and payload
// types the core emits to UI surfaces (§6). Event names and payload shapes
// are enumerated together here so a payload can never change shape without
// a new name — the stability rule §6 requires.
//
// The catalogue is supplemented from the Rust original's full event-name
// declaration (SPEC_FULL.md "Supplemented features"); only the subset
// relevant to the shell integration core is reproduced — surfaces for
// bluetooth/media/notifications are external collaborators (§1) and emit
// their own events outside this package.
package eventbus

// Name is a stable outbound event identifier.
type Name string

const (
	// EventWmSetLayout carries a full recomputed layout for one workspace,
	// published on each retile pass of a monitor's active, unpaused
	// workspace that has windows to place, just before C6 starts animating.
	EventWmSetLayout Name = "wm-set-layout"
	// EventWmForceRetiling requests the orchestrator recompute and re-tile
	// immediately, bypassing any coalescing window.
	EventWmForceRetiling Name = "wm-force-retiling"
	// EventSetAutoHide toggles a single bar/dock surface's auto-hide flag.
	EventSetAutoHide Name = "set-auto-hide"
	// EventSetReservation reflects the consumable "next window goes here"
	// reservation state (glossary: Reservation).
	EventSetReservation Name = "set-reservation"
	// EventSettingsChanged fires once per successful settings reload.
	EventSettingsChanged Name = "settings-changed"
	// EventVirtualDesktopsChanged fires after any C4 workspace switch,
	// create, destroy or window move; pin changes do not publish it.
	EventVirtualDesktopsChanged Name = "virtual-desktops::changed"
	// EventWindowsChanged fires after any C3 registry Added/Removed/
	// Updated/FocusChanged transition.
	EventWindowsChanged Name = "user::windows-changed"
	// EventMonitorsChanged fires after C10 rebuilds MonitorState following
	// a monitor add/remove.
	EventMonitorsChanged Name = "system::monitors-changed"
	// EventPowerStatus mirrors SessionSuspend/SessionResume for UI surfaces
	// that want to dim or hide during suspend.
	EventPowerStatus Name = "power-status"
	// EventColorsChanged mirrors a ColorSchemeChanged WinEvent.
	EventColorsChanged Name = "colors-changed"
	// EventWegItems carries the taskbar-equivalent ("weg") item list,
	// published by the orchestrator on every C3 registry mutation.
	EventWegItems Name = "weg-items"
	// EventWegCommand forwards a "weg" verb (§6) to the taskbar surface —
	// e.g. ActionStartWegApp's "foreground-or-run-app <index>". The core
	// has no taskbar state of its own to mutate; it only relays.
	EventWegCommand Name = "weg-command"
	// EventLauncherCommand forwards a "launcher" verb (§6) to the app
	// launcher surface, e.g. ActionToggleLauncher's "toggle".
	EventLauncherCommand Name = "launcher-command"
	// EventPopupCommand forwards a "popup" verb (§6) to whichever popup
	// surface owns it.
	EventPopupCommand Name = "popup-command"
	// EventDebugCommand forwards a "debug" verb (§6) to an attached
	// debug/introspection client.
	EventDebugCommand Name = "debug-command"
	// EventWallpaperChanged carries the resolved wallpaper id for one
	// (monitor, workspace) pair, published whenever C8 rotation advances or
	// a workspace becomes active (data flow: "C8 → external wallpaper
	// surface" — this event is that surface's only input).
	EventWallpaperChanged Name = "wallpaper-changed"
)

// WmSetLayoutPayload is EventWmSetLayout's payload.
type WmSetLayoutPayload struct {
	MonitorID   string           `json:"monitor_id"`
	WorkspaceID string           `json:"workspace_id"`
	Rects       []HandleRectJSON `json:"rects"`
}

// HandleRectJSON is a single window's resolved target rectangle.
type HandleRectJSON struct {
	Handle int64 `json:"handle"`
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// SetAutoHidePayload is EventSetAutoHide's payload.
type SetAutoHidePayload struct {
	MonitorID string `json:"monitor_id"`
	Surface   string `json:"surface"` // "bar" | "dock"
	AutoHide  bool   `json:"auto_hide"`
}

// SetReservationPayload is EventSetReservation's payload.
type SetReservationPayload struct {
	MonitorID string `json:"monitor_id"`
	Side      string `json:"side"` // top|bottom|left|right|stack|float|""
}

// VirtualDesktopsChangedPayload is EventVirtualDesktopsChanged's payload.
type VirtualDesktopsChangedPayload struct {
	MonitorID       string `json:"monitor_id"`
	ActiveWorkspace int    `json:"active_workspace"`
}

// WindowsChangedPayload is EventWindowsChanged's payload.
type WindowsChangedPayload struct {
	Reason string `json:"reason"` // added|removed|updated|focus_changed
	Handle int64  `json:"handle"`
}

// MonitorsChangedPayload is EventMonitorsChanged's payload.
type MonitorsChangedPayload struct {
	MonitorIDs []string `json:"monitor_ids"`
}

// PowerStatusPayload is EventPowerStatus's payload.
type PowerStatusPayload struct {
	Suspended bool `json:"suspended"`
}

// WallpaperChangedPayload is EventWallpaperChanged's payload.
type WallpaperChangedPayload struct {
	MonitorID   string `json:"monitor_id"`
	WorkspaceID string `json:"workspace_id"`
	WallpaperID string `json:"wallpaper_id"`
}

// WegItem is one taskbar entry, projected from a C3 registry.UserWindow.
type WegItem struct {
	Handle      int64  `json:"handle"`
	Title       string `json:"title"`
	Exe         string `json:"exe"`
	ClassName   string `json:"class_name"`
	LastFocusAt int64  `json:"last_focus_at"`
}

// WegItemsPayload is EventWegItems's payload: the full ordered taskbar item
// list, most-recently-focused first, matching registry.Registry.Windows.
type WegItemsPayload struct {
	Items []WegItem `json:"items"`
}

// CommandForwardPayload is the payload for EventWegCommand,
// EventLauncherCommand, EventPopupCommand and EventDebugCommand: a verbatim
// relay of a dispatched command's action and arguments to the UI surface
// that owns it. The core does not interpret these verbs itself (§6).
type CommandForwardPayload struct {
	Action string   `json:"action"`
	Args   []string `json:"args"`
}
