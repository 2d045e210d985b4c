// Package settings loads the YAML snapshot the external settings
// collaborator writes to disk (§6) and exposes it to the rest of the core
// as a lock-free, atomically-swapped read-only Snapshot, hot-reloaded on
// file change. This mirrors the teacher's settings-cache pattern
// (cache-first reads, a single write-then-swap path) without the bun/sqlite
// backing store SIC does not need.
package settings

import (
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"seelencore/internal/errs"
)

// HideMode controls when a bar/dock surface auto-hides.
type HideMode string

const (
	HideNever    HideMode = "never"
	HideOnOverlap HideMode = "on_overlap"
	HideAlways   HideMode = "always"
)

// DockPosition is the edge a dock or bar is anchored to.
type DockPosition string

const (
	PositionTop    DockPosition = "top"
	PositionBottom DockPosition = "bottom"
	PositionLeft   DockPosition = "left"
	PositionRight  DockPosition = "right"
)

// DragBehavior selects C5's drag semantics (§4.5).
type DragBehavior string

const (
	DragSwap DragBehavior = "swap"
	DragSort DragBehavior = "sort"
)

// BarSettings configures the toolbar or dock band for C7.
type BarSettings struct {
	Position       DockPosition `yaml:"position"`
	Size           int32        `yaml:"size"`
	HideMode       HideMode     `yaml:"hide_mode"`
	OverlapExeDeny []string     `yaml:"overlap_blacklist"`
}

// MonitorWorkspaceDef is a single persisted workspace definition for one
// monitor, as read from the external settings collaborator.
type MonitorWorkspaceDef struct {
	Name string `yaml:"name"`
	// WallpaperID pins this workspace to one literal wallpaper, bypassing
	// rotation entirely. Empty means "use WallpaperCollectionID instead"
	// (§4.8 priority chain).
	WallpaperID string `yaml:"wallpaper_id,omitempty"`
	// WallpaperCollectionID overrides the monitor/global collection for
	// this workspace only (§4.8: "workspace-override" in the priority
	// chain).
	WallpaperCollectionID string `yaml:"wallpaper_collection_id,omitempty"`
}

// MonitorSettings carries the per-monitor workspace list the orchestrator
// seeds C4 with on first run for that monitor id.
type MonitorSettings struct {
	MonitorID  string                `yaml:"monitor_id"`
	Workspaces []MonitorWorkspaceDef `yaml:"workspaces"`
	// WallpaperCollectionID is this monitor's default collection,
	// applied when a workspace on it has no override (§4.8: "monitor-default").
	WallpaperCollectionID string `yaml:"wallpaper_collection_id,omitempty"`
}

// AppMatcherAction is the outcome of a matched app-config rule (§4.2 step 8).
type AppMatcherAction string

const (
	ActionUnmanage AppMatcherAction = "unmanage"
	ActionPin      AppMatcherAction = "pin"
	ActionForce    AppMatcherAction = "force"
	ActionFloat    AppMatcherAction = "float"
)

// MatchField is the window attribute an AppMatcher rule tests.
type MatchField string

const (
	FieldTitle MatchField = "title"
	FieldClass MatchField = "class"
	FieldExe   MatchField = "exe"
	FieldPath  MatchField = "path"
)

// MatchOp is the comparison operator for a single AppMatcher condition.
type MatchOp string

const (
	OpEquals     MatchOp = "equals"
	OpStartsWith MatchOp = "starts_with"
	OpEndsWith   MatchOp = "ends_with"
	OpContains   MatchOp = "contains"
	OpRegex      MatchOp = "regex"
)

// MatchCondition is one leaf test in an AppMatcher boolean expression.
type MatchCondition struct {
	Field    MatchField `yaml:"field"`
	Op       MatchOp    `yaml:"op"`
	Value    string     `yaml:"value"`
	Negate   bool       `yaml:"negate"`
}

// AppMatcher pairs a boolean AND/OR group of conditions with the action to
// apply when the group matches.
type AppMatcher struct {
	Conditions []MatchCondition `yaml:"conditions"`
	MatchAny   bool             `yaml:"match_any"` // false = AND, true = OR
	Action     AppMatcherAction `yaml:"action"`
}

// HotkeyAction identifies what a hotkey triggers (§4.9). Index and
// SelectOnKeyUp are only meaningful for the action names that carry them
// (e.g. "switch_workspace" reads Index, "task_next"/"task_prev" read
// SelectOnKeyUp); the zero value is ignored for every other name.
type HotkeyAction struct {
	Name          string `yaml:"name"`
	Index         int    `yaml:"index,omitempty"`
	SelectOnKeyUp bool   `yaml:"select_on_key_up,omitempty"`
}

// HotkeyDef is one persisted global-hotkey binding.
type HotkeyDef struct {
	ID     string       `yaml:"id"`
	Action HotkeyAction `yaml:"action"`
	Keys   []string     `yaml:"keys"`
	// Readonly hotkeys cannot be rebound from the UI (misc restart/quit).
	Readonly bool `yaml:"readonly,omitempty"`
	// System hotkeys are meant to override an OS-reserved combination
	// (e.g. Alt+Tab) rather than merely add a new one.
	System bool `yaml:"system,omitempty"`
	// AttachedTo, if set, gates registration on that widget id being
	// enabled in WidgetsEnabled.
	AttachedTo string `yaml:"attached_to,omitempty"`
}

// WallpaperCollection is a named ordered list of wallpaper ids (§4.8).
type WallpaperCollection struct {
	ID        string   `yaml:"id"`
	Items     []string `yaml:"items"`
	Randomise bool     `yaml:"randomise"`
}

// Snapshot is the full read-only settings view consumed by the core.
// External collaborators own the backing YAML file; the core never writes
// to it, and it writes no state file of its own.
type Snapshot struct {
	WidgetsEnabled map[string]bool `yaml:"widgets_enabled"`

	Bar  BarSettings `yaml:"bar"`
	Dock BarSettings `yaml:"dock"`

	Monitors []MonitorSettings `yaml:"monitors"`

	WallpaperCollections []WallpaperCollection `yaml:"wallpaper_collections"`
	// WallpaperGlobalDefault is the collection id used when neither the
	// workspace nor its monitor names one (§4.8: "global-default", the
	// last link in the priority chain).
	WallpaperGlobalDefault  string `yaml:"wallpaper_global_default"`
	WallpaperRotateInterval int    `yaml:"wallpaper_rotate_interval_seconds"`

	AppMatchers []AppMatcher `yaml:"app_matchers"`

	TilingResizeDeltaPercent float64      `yaml:"tiling_resize_delta_percent"`
	DragBehavior             DragBehavior `yaml:"drag_behavior"`

	ShortcutsEnabled bool        `yaml:"shortcuts_enabled"`
	Shortcuts        []HotkeyDef `yaml:"shortcuts"`

	// TextScale is the user's system text-scale factor (e.g. Windows
	// "make text bigger"), applied on top of monitor DPI scale when
	// sizing the bar/dock bands (§4.7). Updates arrive via
	// TextScaleChanged.
	TextScale float64 `yaml:"text_scale"`

	// AnimationsEnabled gates C6 entirely; when false, retiling applies
	// target rects immediately with zero-duration animation (§4.6).
	AnimationsEnabled bool `yaml:"animations_enabled"`
	// AnimationDurationMs is the per-window transition duration C10 passes
	// to positioning.Orchestrator.AnimateBatch.
	AnimationDurationMs int `yaml:"animation_duration_ms"`
	// AnimationEasing names one of the 31 curves in internal/positioning
	// (§4.6); unparseable or empty falls back to EaseOut.
	AnimationEasing string `yaml:"animation_easing"`
}

// Default returns a Snapshot with the defaults documented in §6.
func Default() *Snapshot {
	return &Snapshot{
		WidgetsEnabled: map[string]bool{
			"bar": true, "dock": true, "wallpaper": true, "shortcuts": true,
		},
		Bar:                      BarSettings{Position: PositionTop, Size: 30, HideMode: HideNever},
		Dock:                     BarSettings{Position: PositionBottom, Size: 48, HideMode: HideNever},
		WallpaperRotateInterval:  60,
		TilingResizeDeltaPercent: 10,
		DragBehavior:             DragSwap,
		ShortcutsEnabled:         true,
		TextScale:                1.0,
		AnimationsEnabled:        true,
		AnimationDurationMs:      250,
		AnimationEasing:          "easeout",
	}
}

var current atomic.Pointer[Snapshot]

func init() {
	current.Store(Default())
}

// Current returns the live snapshot. Safe to call concurrently from any
// goroutine; never blocks.
func Current() *Snapshot {
	return current.Load()
}

// Load reads and parses the YAML file at path, merging onto a fresh
// Default() so an omitted field keeps its documented default, then
// publishes it atomically.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.Fatal, "settings.read_failed")
	}
	snap := Default()
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, errs.Wrap(err, errs.Fatal, "settings.parse_failed")
	}
	current.Store(snap)
	return snap, nil
}
