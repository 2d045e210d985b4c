//go:build windows

package winapi

var (
	procRegisterHotKey   = modUser32.NewProc("RegisterHotKey")
	procUnregisterHotKey = modUser32.NewProc("UnregisterHotKey")
)

// Modifier bits for RegisterHotKey's fsModifiers.
const (
	ModAlt     = 0x0001
	ModControl = 0x0002
	ModShift   = 0x0004
	ModWin     = 0x0008
	ModNoRepeat = 0x4000
)

// RegisterHotKey registers a global hotkey identified by id on the calling
// thread (must be the same thread that later pumps WM_HOTKEY messages —
// C9 registers from its own RunHotkeyPump thread).
func RegisterHotKey(id int, modifiers, vkey uint32) bool {
	r, _, _ := procRegisterHotKey.Call(0, uintptr(id), uintptr(modifiers|ModNoRepeat), uintptr(vkey))
	return r != 0
}

func UnregisterHotKey(id int) {
	procUnregisterHotKey.Call(0, uintptr(id))
}

// VKeyFromName resolves a subset of key names (letters, digits, function
// keys, and the common punctuation/editing keys used by default shortcuts)
// to a Windows virtual-key code. ok is false for unrecognised names.
func VKeyFromName(name string) (vk uint32, ok bool) {
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return uint32(c), true
		case c >= 'a' && c <= 'z':
			return uint32(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return uint32(c), true
		}
	}
	if vk, ok := namedVKeys[name]; ok {
		return vk, true
	}
	return 0, false
}

var namedVKeys = map[string]uint32{
	"Tab": 0x09, "Escape": 0x1B, "Left": 0x25, "Up": 0x26, "Right": 0x27, "Down": 0x28,
	"F4": 0x73, "=": 0xBB, "-": 0xBD,
}

// Modifier virtual-key codes, needed to build the pressed-set during
// capture mode (§4.9) where Win/Ctrl/Alt/Shift arrive as ordinary keydowns
// rather than RegisterHotKey's separate modifier bits.
const (
	VKShift   = 0x10
	VKControl = 0x11
	VKMenu    = 0x12 // Alt
	VKLWin    = 0x5B
	VKRWin    = 0x5C
)

var reverseNamedVKeys = func() map[uint32]string {
	m := make(map[uint32]string, len(namedVKeys))
	for name, vk := range namedVKeys {
		m[vk] = name
	}
	return m
}()

// VKeyName is VKeyFromName's inverse: it resolves a virtual-key code
// produced by a keyboard hook to the same key-name vocabulary the
// persisted hotkey keys use, so a captured pressed-set round-trips through
// settings storage unchanged.
func VKeyName(vk uint32) (name string, ok bool) {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return string(rune(vk)), true
	case vk >= '0' && vk <= '9':
		return string(rune(vk)), true
	case vk == VKShift:
		return "Shift", true
	case vk == VKControl:
		return "Ctrl", true
	case vk == VKMenu:
		return "Alt", true
	case vk == VKLWin || vk == VKRWin:
		return "Win", true
	}
	if name, ok := reverseNamedVKeys[vk]; ok {
		return name, true
	}
	return "", false
}
