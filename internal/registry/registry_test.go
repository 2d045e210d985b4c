package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seelencore/internal/eligibility"
	"seelencore/internal/winhandle"
)

func newTestRegistry() *Registry {
	return &Registry{
		windows: make(map[winhandle.WindowHandle]*UserWindow),
		subs:    make(map[int]func(Event)),
	}
}

func TestFocusMovesWindowToFront(t *testing.T) {
	r := newTestRegistry()
	a := UserWindow{Handle: 1, Class: eligibility.Managed}
	b := UserWindow{Handle: 2, Class: eligibility.Managed}
	r.windows[1] = &a
	r.windows[2] = &b
	r.order = []winhandle.WindowHandle{1, 2}

	r.focus(2)

	require.Equal(t, []winhandle.WindowHandle{2, 1}, r.order)
}

func TestFocusUnknownHandleIsNoop(t *testing.T) {
	r := newTestRegistry()
	a := UserWindow{Handle: 1, Class: eligibility.Managed}
	r.windows[1] = &a
	r.order = []winhandle.WindowHandle{1}

	r.focus(99)

	require.Equal(t, []winhandle.WindowHandle{1}, r.order)
}

func TestRemoveDropsFromOrderAndMap(t *testing.T) {
	r := newTestRegistry()
	a := UserWindow{Handle: 1}
	b := UserWindow{Handle: 2}
	r.windows[1] = &a
	r.windows[2] = &b
	r.order = []winhandle.WindowHandle{1, 2}

	var got Event
	r.subs[0] = func(e Event) { got = e }

	r.remove(1)

	require.Equal(t, []winhandle.WindowHandle{2}, r.order)
	_, stillPresent := r.windows[1]
	require.False(t, stillPresent)
	require.Equal(t, Removed, got.Kind)
	require.Equal(t, winhandle.WindowHandle(1), got.Window.Handle)
}

func TestWindowsSnapshotPreservesOrder(t *testing.T) {
	r := newTestRegistry()
	now := time.Now()
	a := UserWindow{Handle: 1, LastFocusAt: now}
	b := UserWindow{Handle: 2, LastFocusAt: now.Add(-time.Second)}
	r.windows[1] = &a
	r.windows[2] = &b
	r.order = []winhandle.WindowHandle{1, 2}

	snap := r.Windows()

	require.Len(t, snap, 2)
	require.Equal(t, winhandle.WindowHandle(1), snap[0].Handle)
	require.Equal(t, winhandle.WindowHandle(2), snap[1].Handle)
}
