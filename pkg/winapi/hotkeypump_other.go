//go:build !windows

package winapi

func RunHotkeyPump(onStart func(), onHotkey func(id int), onReregister func(), threadID chan<- uint32, quit <-chan struct{}) {
	threadID <- 0
	if onStart != nil {
		onStart()
	}
	<-quit
}

func PostReregister(threadID uint32) {}
