package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// desktop sessions start tray applications from XDG autostart entries
const desktopTemplate = `[Desktop Entry]
Type=Application
Name=dropfix
Comment=Corrects and relocates dropped files
Exec={{.Command}}
Terminal=false
X-GNOME-Autostart-enabled=true
`

const entryName = "dropfix.desktop"

type LinuxAutoStarter struct{}

func (l *LinuxAutoStarter) entryPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}

	dir = filepath.Join(dir, "autostart")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, entryName), nil
}

func (l *LinuxAutoStarter) Install(execPath string) error {
	path, err := l.entryPath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create autostart entry: %w", err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	tmpl := template.Must(template.New("desktop").Parse(desktopTemplate))
	if err := tmpl.Execute(f, map[string]string{"Command": LaunchCommand(execPath)}); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}

	return nil
}

func (l *LinuxAutoStarter) Uninstall() error {
	path, err := l.entryPath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}

	return nil
}

func (l *LinuxAutoStarter) IsInstalled() (bool, error) {
	path, err := l.entryPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	return err == nil, nil
}

func (l *LinuxAutoStarter) Location() string {
	path, err := l.entryPath()
	if err != nil {
		return entryName
	}
	return path
}
