//go:build production

package define

var (
	Env     = "production"
	RunMode = "gui"
)
