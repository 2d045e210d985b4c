//go:build !production

package define

var (
	Env     = "development"
	RunMode = "gui"
)
