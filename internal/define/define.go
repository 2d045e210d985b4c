// Package define holds process-wide identity constants and the dev/prod,
// gui/service mode switches used across the shell integration core.
package define

// AppID identifies the application for config/log directory purposes.
const AppID = "seelencore"

// SingleInstanceUniqueID gates the per-session mutex acquired by the
// orchestrator at startup (C10 step 2).
const SingleInstanceUniqueID = "com.seelencore.shell"

// AppDisplayName is used for window titles and tray tooltips.
const AppDisplayName = "Seelen Core"

// IsDev reports whether the binary was built without the production tag.
func IsDev() bool {
	return Env == "development"
}

// IsProd reports whether the binary was built with the production tag.
func IsProd() bool {
	return Env == "production"
}

// IsServerMode reports whether the core is running headless (named-pipe
// IPC only, no UI surfaces).
func IsServerMode() bool {
	return RunMode == "server"
}

// IsGUIMode reports whether the core owns the bar/dock/widget surfaces.
func IsGUIMode() bool {
	return RunMode == "gui"
}
