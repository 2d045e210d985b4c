package eventbus

// Emitter is the narrow surface of *application.App's Event manager
// (wails/v3) the bus needs — an interface so components can be
// unit-tested without standing up a real wails application.
type Emitter interface {
	Emit(name string, data any) error
}

// Bus publishes typed, named events to every UI surface. In production it
// is backed by a wails *application.App; app.Event.Emit is itself the
// outbound bus (§6) — this type only adds the name/payload pairing
// discipline described in the package doc.
type Bus struct {
	emitter Emitter
}

// New wraps an Emitter (typically application.App.Event via the adapter in
// internal/surfaces) as a Bus.
func New(emitter Emitter) *Bus {
	return &Bus{emitter: emitter}
}

// Publish emits a named event with its payload. Safe to call with a nil
// Bus (no-op), so headless/test code paths don't need a live emitter.
func (b *Bus) Publish(name Name, payload any) {
	if b == nil || b.emitter == nil {
		return
	}
	_ = b.emitter.Emit(string(name), payload)
}
