//go:build !windows

package winapi

func AcquireSingleInstanceMutex(name string) (held bool, release func(), err error) {
	return true, func() {}, nil
}
