package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seelencore/internal/eventbus"
	"seelencore/internal/shortcuts"
)

type recordingEmitter struct {
	events []string
	data   []any
}

func (r *recordingEmitter) Emit(name string, data any) error {
	r.events = append(r.events, name)
	r.data = append(r.data, data)
	return nil
}

func newTestCore(t *testing.T) *Core {
	t.Helper()
	return New(Options{})
}

func TestDispatchRejectsUnknownVerb(t *testing.T) {
	c := newTestCore(t)
	err := c.Dispatch(shortcuts.Command{Verb: "nonsense"})
	require.Error(t, err)
}

func TestDispatchAcceptsEveryKnownVerb(t *testing.T) {
	c := newTestCore(t)
	for verb := range knownVerbs {
		err := c.Dispatch(shortcuts.Command{Verb: verb, Args: nil})
		require.NoError(t, err, "verb %q should be accepted", verb)
	}
}

func TestArgReturnsEmptyStringPastEnd(t *testing.T) {
	require.Equal(t, "left", arg([]string{"left", "extra"}, 0))
	require.Equal(t, "extra", arg([]string{"left", "extra"}, 1))
	require.Equal(t, "", arg([]string{"left"}, 5))
	require.Equal(t, "", arg(nil, 0))
}

func TestDirectionMatches(t *testing.T) {
	// origin at (500, 500); candidate to the right at (800, 510).
	require.True(t, directionMatches("right", 500, 500, 800, 510))
	require.False(t, directionMatches("left", 500, 500, 800, 510))
	require.True(t, directionMatches("down", 500, 500, 510, 800))
	require.False(t, directionMatches("up", 500, 500, 510, 800))
}

func TestEnsureTreeIsStableForSameKey(t *testing.T) {
	c := newTestCore(t)
	key := treeKey{monitor: "mon-1", workspace: "1"}

	first := c.ensureTree(key)
	second := c.ensureTree(key)
	require.Same(t, first, second)

	other := c.ensureTree(treeKey{monitor: "mon-2", workspace: "1"})
	require.NotSame(t, first, other)
}

func TestDispatchWegCommandPublishesDistinctEventWithRealPayload(t *testing.T) {
	emitter := &recordingEmitter{}
	c := New(Options{Emitter: emitter})

	c.dispatchCommand(shortcuts.Command{Verb: "weg", Args: []string{"foreground-or-run-app", "3"}})

	require.Contains(t, emitter.events, string(eventbus.EventWegCommand))
	require.NotContains(t, emitter.events, string(eventbus.EventWmForceRetiling),
		"weg commands must not be relabelled as a layout retile")

	var payload eventbus.CommandForwardPayload
	for i, name := range emitter.events {
		if name == string(eventbus.EventWegCommand) {
			payload = emitter.data[i].(eventbus.CommandForwardPayload)
		}
	}
	require.Equal(t, "foreground-or-run-app", payload.Action)
	require.Equal(t, []string{"3"}, payload.Args)
}

func TestDispatchLauncherPopupDebugEachGetOwnEvent(t *testing.T) {
	emitter := &recordingEmitter{}
	c := New(Options{Emitter: emitter})

	c.dispatchCommand(shortcuts.Command{Verb: "launcher", Args: []string{"toggle"}})
	c.dispatchCommand(shortcuts.Command{Verb: "popup", Args: []string{"show"}})
	c.dispatchCommand(shortcuts.Command{Verb: "debug", Args: []string{"dump-state"}})

	require.Contains(t, emitter.events, string(eventbus.EventLauncherCommand))
	require.Contains(t, emitter.events, string(eventbus.EventPopupCommand))
	require.Contains(t, emitter.events, string(eventbus.EventDebugCommand))
}

func TestDispatchMiscForceQuitStopsCore(t *testing.T) {
	c := newTestCore(t)
	// Stop joins the shortcut pump's done channel, so it must have been
	// started at least once or the force-quit path below would block.
	c.shortcut.Start()
	c.dispatchMisc([]string{shortcuts.ActionMiscForceQuit})

	select {
	case <-c.quit:
	default:
		t.Fatal("expected quit channel to be closed after a force-quit command")
	}
	require.False(t, c.RestartRequested())
}

func TestDispatchMiscForceRestartSetsFlagAndStops(t *testing.T) {
	c := newTestCore(t)
	c.shortcut.Start()
	c.dispatchMisc([]string{shortcuts.ActionMiscForceRestart})

	require.True(t, c.RestartRequested())
	select {
	case <-c.quit:
	default:
		t.Fatal("expected quit channel to be closed after a force-restart command")
	}
}
