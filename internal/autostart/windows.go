package autostart

import (
	"fmt"
	"os/exec"
)

const taskName = "dropfix"

// The task runs in the user's interactive session so the tray icon shows
// up; it needs no elevation.
type WindowsAutoStarter struct{}

func (w *WindowsAutoStarter) Install(execPath string) error {
	cmd := exec.Command("schtasks", "/create",
		"/TN", taskName,
		"/TR", LaunchCommand(execPath),
		"/SC", "ONLOGON",
		"/DELAY", "0000:30",
		"/IT",
		"/F")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to register task %q: %w\n%s", taskName, err, out)
	}

	return nil
}

func (w *WindowsAutoStarter) Uninstall() error {
	installed, err := w.IsInstalled()
	if err != nil || !installed {
		return err
	}

	out, err := exec.Command("schtasks", "/delete", "/TN", taskName, "/F").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to remove task %q: %w\n%s", taskName, err, out)
	}

	return nil
}

// IsInstalled treats any query failure as "no such task".
func (w *WindowsAutoStarter) IsInstalled() (bool, error) {
	err := exec.Command("schtasks", "/query", "/TN", taskName).Run()
	return err == nil, nil
}

func (w *WindowsAutoStarter) Location() string {
	return "scheduled task " + taskName
}
