package define

// Version is "dev" in development builds; production builds inject the
// real version via -ldflags="-X seelencore/internal/define.Version=1.2.3".
var Version = "dev"
