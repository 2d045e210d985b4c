//go:build !windows

package winapi

const (
	ModAlt      = 0x0001
	ModControl  = 0x0002
	ModShift    = 0x0004
	ModWin      = 0x0008
	ModNoRepeat = 0x4000
)

const (
	VKShift   = 0x10
	VKControl = 0x11
	VKMenu    = 0x12
	VKLWin    = 0x5B
	VKRWin    = 0x5C
)

func RegisterHotKey(id int, modifiers, vkey uint32) bool { return false }
func UnregisterHotKey(id int)                            {}

// VKeyFromName is a pure name-to-code mapping, so it resolves the same
// vocabulary as the windows build.
func VKeyFromName(name string) (uint32, bool) {
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return uint32(c), true
		case c >= 'a' && c <= 'z':
			return uint32(c - 'a' + 'A'), true
		}
	}
	vk, ok := map[string]uint32{
		"Tab": 0x09, "Escape": 0x1B, "Left": 0x25, "Up": 0x26, "Right": 0x27, "Down": 0x28,
		"F4": 0x73, "=": 0xBB, "-": 0xBD,
	}[name]
	return vk, ok
}

func VKeyName(vk uint32) (string, bool) { return "", false }
