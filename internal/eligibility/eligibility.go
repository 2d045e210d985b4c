// Package eligibility implements C2, the Window Eligibility Filter: a pure
// predicate over OS state and the settings snapshot, with no mutation and
// no caching outside the call (§4.2). Callers re-classify on each relevant
// WinEvent since the result depends on mutable OS state (P4).
package eligibility

import (
	"os"
	"regexp"
	"strings"

	"seelencore/internal/settings"
	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// Class is classify's result (§4.2).
type Class int

const (
	Ignored Class = iota
	Interactable
	Pinned
	Managed
	ForceManaged
	ForceUnmanaged
)

func (c Class) String() string {
	switch c {
	case Ignored:
		return "ignored"
	case Interactable:
		return "interactable"
	case Pinned:
		return "pinned"
	case Managed:
		return "managed"
	case ForceManaged:
		return "force_managed"
	case ForceUnmanaged:
		return "force_unmanaged"
	default:
		return "unknown"
	}
}

// AtLeastInteractable reports whether c is Interactable or "more managed"
// — the threshold C3 inserts entries at (§4.3 table: "classify ≥ Interactable").
func (c Class) AtLeastInteractable() bool { return c != Ignored }

// tabProxyClass is the known "browser tab proxy" window class (§4.2 step 2,
// literal scenario S5).
const tabProxyClass = "Windows.Internal.Shell.TabProxyWindow"

var selfPID = uint32(os.Getpid())

// Classify runs the full decision order against the live handle and the
// current settings snapshot. It reads OS state but never mutates it.
func Classify(h winhandle.WindowHandle) Class {
	return classifyWith(h, settings.Current())
}

// classifyWith is Classify parameterised on an explicit snapshot, so tests
// can exercise the matcher logic (step 8) without depending on the global
// atomic pointer (§8 P4).
func classifyWith(handle winhandle.WindowHandle, snap *settings.Snapshot) Class {
	h := handle.Native()

	// 1. invalid / not visible / cloaked.
	if !winapi.IsWindow(h) || !winapi.IsVisible(h) || winapi.IsCloaked(h) {
		return Ignored
	}

	// 2. empty title, or known tab-proxy class.
	title := winapi.WindowText(h)
	class := winapi.ClassName(h)
	if strings.TrimSpace(title) == "" || class == tabProxyClass {
		return Ignored
	}

	// 3. lacks APPWINDOW AND (has parent OR tool/no-activate).
	ex := winapi.ExStyle(h)
	hasAppWindow := ex&winapi.WSExAppWindow != 0
	isToolOrNoActivate := ex&(winapi.WSExToolWindow|winapi.WSExNoActivate) != 0
	hasParent := winapi.Parent(h) != 0
	if !hasAppWindow && (hasParent || isToolOrNoActivate) {
		return Ignored
	}

	// 4. process cannot be opened with limited rights.
	pid := winapi.ProcessID(h)
	procHandle, ok := winapi.OpenProcessLimited(pid)
	if !ok {
		return Ignored
	}
	defer winapi.CloseProcessHandle(procHandle)

	// 5. self-process, not minimisable (no caption).
	if pid == selfPID && winapi.Style(h)&winapi.WSCaption == 0 {
		return Ignored
	}

	// 6. process reported frozen.
	if winapi.IsFrozen(h) {
		return Ignored
	}

	// 7. when h has a distinct root ancestor (GA_ROOT), re-check h's own
	// title, class and exe against the unmanage rules. The root window's
	// own title, class and exe are not read.
	root := winapi.RootOwner(h)
	exeName, _ := winapi.ImageBaseName(procHandle)
	exePath, _ := winapi.FullImageName(procHandle)
	if root != 0 && root != h {
		if m := matchApp(snap, title, class, exeName, exePath); m == settings.ActionUnmanage {
			return Ignored
		}
	}

	// 8. user app-config matchers.
	switch matchApp(snap, title, class, exeName, exePath) {
	case settings.ActionUnmanage, settings.ActionPin:
		return Pinned
	case settings.ActionForce:
		return ForceManaged
	case settings.ActionFloat:
		return Interactable
	}

	// 9. default: Managed if captioned and not always-on-top, else Interactable.
	hasCaption := winapi.Style(h)&winapi.WSCaption != 0
	alwaysOnTop := ex&0x00000008 != 0 // WS_EX_TOPMOST
	if hasCaption && !alwaysOnTop {
		return Managed
	}
	return Interactable
}

// matchApp evaluates the user's app-config matcher rules (§4.2 step 8) and
// returns the action of the first rule that matches (AND/OR group), or ""
// if none match. exe is the bare image name (settings.FieldExe); path is
// the full image path (settings.FieldPath) — distinct subjects, since a
// full-path matcher must never silently fall back to comparing against
// just the base name.
func matchApp(snap *settings.Snapshot, title, class, exe, path string) settings.AppMatcherAction {
	if snap == nil {
		return ""
	}
	for _, m := range snap.AppMatchers {
		if evalGroup(m, title, class, exe, path) {
			return m.Action
		}
	}
	return ""
}

func evalGroup(m settings.AppMatcher, title, class, exe, path string) bool {
	if len(m.Conditions) == 0 {
		return false
	}
	if m.MatchAny {
		for _, c := range m.Conditions {
			if evalCondition(c, title, class, exe, path) {
				return true
			}
		}
		return false
	}
	for _, c := range m.Conditions {
		if !evalCondition(c, title, class, exe, path) {
			return false
		}
	}
	return true
}

func evalCondition(c settings.MatchCondition, title, class, exe, path string) bool {
	var subject string
	switch c.Field {
	case settings.FieldTitle:
		subject = title
	case settings.FieldClass:
		subject = class
	case settings.FieldExe:
		subject = exe
	case settings.FieldPath:
		subject = path
	}

	var result bool
	switch c.Op {
	case settings.OpEquals:
		result = subject == c.Value
	case settings.OpStartsWith:
		result = strings.HasPrefix(subject, c.Value)
	case settings.OpEndsWith:
		result = strings.HasSuffix(subject, c.Value)
	case settings.OpContains:
		result = strings.Contains(subject, c.Value)
	case settings.OpRegex:
		re, err := regexp.Compile(c.Value)
		result = err == nil && re.MatchString(subject)
	}
	if c.Negate {
		return !result
	}
	return result
}
