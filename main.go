package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/wailsapp/wails/v3/pkg/application"

	"seelencore/internal/define"
	"seelencore/internal/ipc"
	"seelencore/internal/logger"
	"seelencore/internal/orchestrator"
	"seelencore/internal/surfaces"
)

func init() {
	runtime.GOMAXPROCS(runtime.NumCPU() / 2)
}

func main() {
	log, cleanupLog, err := logger.New()
	if err != nil {
		stdlog("logger init failed: %v", err)
		os.Exit(1)
	}
	defer cleanupLog()

	settingsPath, err := resolveSettingsPath()
	if err != nil {
		log.Error("resolve settings path", "error", err)
		os.Exit(1)
	}

	app := application.New(application.Options{
		Name:        define.AppDisplayName,
		Description: "Shell integration core for Seelen UI",
		Logger:      log,
		SingleInstance: &application.SingleInstanceOptions{
			UniqueID: define.SingleInstanceUniqueID,
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	widgets := surfaces.New(app)
	core := orchestrator.New(orchestrator.Options{
		Log:          log,
		SettingsPath: settingsPath,
		Widgets:      widgets,
		Emitter:      surfaces.Emitter{App: app},
	})

	if err := core.Start(context.Background()); err != nil {
		log.Error("orchestrator start failed", "error", err)
		os.Exit(1)
	}
	defer core.Stop()

	pipeServer := ipc.New(log, ipcPipePath(), core)
	if err := pipeServer.Start(); err != nil {
		log.Error("ipc server start failed", "error", err)
		os.Exit(1)
	}
	defer pipeServer.Stop()

	if err := app.Run(); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	if core.RestartRequested() {
		restartSelf(log)
	}
}

// resolveSettingsPath returns the YAML file the external settings
// collaborator (§6, out of scope for this core) writes to and
// internal/settings.Watch hot-reloads from.
func resolveSettingsPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, define.AppID, "settings.yaml"), nil
}

func ipcPipePath() string {
	return `\\.\pipe\` + define.AppID
}

// restartSelf re-execs the current binary; used for the "misc" verb's
// force-restart command once app.Run has returned and every resource this
// process held has been released by the deferred Stop/cleanup calls above.
func restartSelf(log *slog.Logger) {
	exe, err := os.Executable()
	if err != nil {
		log.Error("resolve executable path for restart", "error", err)
		return
	}
	if _, err := os.StartProcess(exe, os.Args, &os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}); err != nil {
		log.Error("restart process failed", "error", err)
	}
}

func stdlog(format string, args ...any) {
	log.Printf(format, args...)
}
