//go:build !windows

package winapi

func InstallKeyboardHook(sink func(vk uint32, down bool) (swallow bool)) bool { return false }
func RemoveKeyboardHook()                                                    {}
