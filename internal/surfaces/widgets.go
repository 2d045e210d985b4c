// Package surfaces creates the webview windows the orchestrator drives:
// one borderless, always-on-top bar and dock per monitor. Grounded on
// internal/services/floatingball/service.go's app.Window.NewWithOptions
// call — the same frameless/always-on-top/hidden-on-taskbar idiom, just
// anchored to a monitor's bar/dock band instead of floating freely.
package surfaces

import (
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"

	"seelencore/internal/winhandle"
	"seelencore/pkg/winapi"
)

// WidgetSet creates and tracks the per-monitor bar/dock webview windows and
// implements orchestrator.WidgetFactory.
type WidgetSet struct {
	app *application.App

	mu   sync.Mutex
	bars map[string]*application.WebviewWindow
	docks map[string]*application.WebviewWindow
}

// New constructs a WidgetSet bound to app. app.Window.NewWithOptions is not
// called until CreateBar/CreateDock, so constructing a WidgetSet has no
// side effects.
func New(app *application.App) *WidgetSet {
	return &WidgetSet{
		app:   app,
		bars:  make(map[string]*application.WebviewWindow),
		docks: make(map[string]*application.WebviewWindow),
	}
}

func (w *WidgetSet) CreateBar(monitorID string, info winapi.MonitorInfo) (winhandle.WindowHandle, error) {
	return w.create(w.bars, "bar", monitorID, info, "/bar.html")
}

func (w *WidgetSet) CreateDock(monitorID string, info winapi.MonitorInfo) (winhandle.WindowHandle, error) {
	return w.create(w.docks, "dock", monitorID, info, "/dock.html")
}

func (w *WidgetSet) create(table map[string]*application.WebviewWindow, kind, monitorID string, info winapi.MonitorInfo, url string) (winhandle.WindowHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := table[monitorID]; ok {
		return windowHandle(existing), nil
	}
	if w.app == nil {
		return winhandle.Zero, fmt.Errorf("surfaces: no wails application bound")
	}

	name := fmt.Sprintf("seelen-%s-%s", kind, monitorID)
	win := w.app.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:            name,
		Title:           name,
		Width:           int(info.Rect.Width()),
		Height:          40,
		InitialPosition: application.WindowXY,
		X:               int(info.Rect.Left),
		Y:               int(info.Rect.Top),
		DisableResize:   true,
		Frameless:       true,
		AlwaysOnTop:     true,
		Hidden:          false,
		URL:             url,
		BackgroundType:  application.BackgroundTypeTranslucent,

		Windows: application.WindowsWindow{
			HiddenOnTaskbar:                   true,
			DisableFramelessWindowDecorations: true,
			BackdropType:                      application.None,
		},
	})
	table[monitorID] = win
	return windowHandle(win), nil
}

// DestroyWidgets closes and forgets monitorID's bar/dock windows.
func (w *WidgetSet) DestroyWidgets(monitorID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if win, ok := w.bars[monitorID]; ok {
		win.Close()
		delete(w.bars, monitorID)
	}
	if win, ok := w.docks[monitorID]; ok {
		win.Close()
		delete(w.docks, monitorID)
	}
}

// windowHandle extracts the native HWND wails holds for win. NativeWindow
// is the same accessor internal/bootstrap's mainWindowManager uses to
// validate a window handle.
func windowHandle(win *application.WebviewWindow) winhandle.WindowHandle {
	return winhandle.FromNative(winapi.HWND(uintptr(win.NativeWindow())))
}

// Emitter adapts app.Event (wails v3's *application.EventManager) to
// eventbus.Emitter, so internal/orchestrator's Bus can publish straight to
// every webview surface without importing wails itself.
type Emitter struct {
	App *application.App
}

func (e Emitter) Emit(name string, data any) error {
	e.App.Event.Emit(name, data)
	return nil
}
