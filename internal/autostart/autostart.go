package autostart

import (
	"errors"
	"fmt"
	"runtime"
)

// LaunchArgs start the desktop shell hidden in the tray at login.
const LaunchArgs = "gui --minimized"

var ErrUnsupported = errors.New("autostart is not supported on " + runtime.GOOS)

type AutoStarter interface {
	Install(execPath string) error
	Uninstall() error
	IsInstalled() (bool, error)
	// Location names where the entry lives, for user-facing messages.
	Location() string
}

func New() AutoStarter {
	switch runtime.GOOS {
	case "windows":
		return &WindowsAutoStarter{}
	case "linux":
		return &LinuxAutoStarter{}
	default:
		return &UnsupportedAutoStarter{}
	}
}

// LaunchCommand is the command line run at login.
func LaunchCommand(execPath string) string {
	return fmt.Sprintf(`"%s" %s`, execPath, LaunchArgs)
}

type UnsupportedAutoStarter struct{}

func (u *UnsupportedAutoStarter) Install(_ string) error {
	return ErrUnsupported
}

func (u *UnsupportedAutoStarter) Uninstall() error {
	return nil
}

func (u *UnsupportedAutoStarter) IsInstalled() (bool, error) {
	return false, nil
}

func (u *UnsupportedAutoStarter) Location() string {
	return "-"
}
