package config

import (
	"dropfix/internal/logger"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const pathsSection = "Paths"

var (
	ErrPathsRequired  = errors.New("source and target folders are required")
	ErrSourceNotFound = errors.New("source folder does not exist")
	ErrTargetNotFound = errors.New("target folder does not exist")
	ErrSameFolder     = errors.New("source and target must be different folders")
)

type Paths struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (p Paths) IsZero() bool {
	return p.Source == "" && p.Target == ""
}

// Validate requires both folders to be set, to exist as directories and to
// be distinct. Two names for one directory (symlinks, relative paths) count
// as the same folder.
func Validate(p Paths) error {
	if p.Source == "" || p.Target == "" {
		return ErrPathsRequired
	}

	if !isDir(p.Source) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, p.Source)
	}

	if !isDir(p.Target) {
		return fmt.Errorf("%w: %s", ErrTargetNotFound, p.Target)
	}

	if SameDir(p.Source, p.Target) {
		return fmt.Errorf("%w: %s", ErrSameFolder, p.Source)
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SameDir reports whether a and b resolve to the same directory.
func SameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// PathStore persists the watched/destination pair in an INI file.
type PathStore struct {
	file string
}

func NewPathStore(file string) *PathStore {
	return &PathStore{file: file}
}

func (s *PathStore) File() string {
	return s.file
}

// Load returns the stored pair and whether it is usable. Anything short of
// two existing folders yields the zero pair.
func (s *PathStore) Load() (Paths, bool) {
	if _, err := os.Stat(s.file); err != nil {
		logger.Log.Info("paths file not found, watching disabled",
			zap.String("file", s.file))
		return Paths{}, false
	}

	f, err := ini.Load(s.file)
	if err != nil {
		logger.Log.Error("failed to load paths file",
			zap.String("file", s.file),
			zap.Error(err))
		return Paths{}, false
	}

	sec := f.Section(pathsSection)
	p := Paths{
		Source: sec.Key("source").String(),
		Target: sec.Key("target").String(),
	}

	if err := Validate(p); err != nil {
		logger.Log.Warn("configured paths are invalid",
			zap.String("source", p.Source),
			zap.String("target", p.Target),
			zap.Error(err))
		return Paths{}, false
	}

	return p, true
}

func (s *PathStore) Save(p Paths) error {
	if err := Validate(p); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.file), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	f := ini.Empty()
	sec, err := f.NewSection(pathsSection)
	if err != nil {
		return fmt.Errorf("failed to build paths section: %w", err)
	}

	if _, err := sec.NewKey("source", p.Source); err != nil {
		return fmt.Errorf("failed to set source: %w", err)
	}
	if _, err := sec.NewKey("target", p.Target); err != nil {
		return fmt.Errorf("failed to set target: %w", err)
	}

	if err := f.SaveTo(s.file); err != nil {
		return fmt.Errorf("failed to write paths file: %w", err)
	}

	logger.Log.Info("paths saved",
		zap.String("source", p.Source),
		zap.String("target", p.Target))

	return nil
}
