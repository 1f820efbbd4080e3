package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, ".utf8", cfg.Extension)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, time.Second, cfg.DebounceWindow)
	assert.Equal(t, 12721, cfg.InstancePort)
	assert.Equal(t, filepath.Join(dir, "dropfix.conf"), cfg.PathsFile)
	assert.Equal(t, filepath.Join(dir, "Logs"), cfg.LogDir)
}

func TestLoadFrom_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.db")

	yaml := "extension: .txt\nsettle_delay: 50ms\ndb_path: " + abs + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, ".txt", cfg.Extension)
	assert.Equal(t, 50*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, abs, cfg.DBPath)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("DROPFIX_CONTROL_PORT", "23456")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 23456, cfg.ControlPort)
}

func TestValidate(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	missing := filepath.Join(src, "missing")
	nested := filepath.Join(src, "out")
	require.NoError(t, os.MkdirAll(nested, 0755))

	tests := []struct {
		name  string
		paths Paths
		want  error
	}{
		{name: "valid", paths: Paths{Source: src, Target: dst}},
		{name: "empty source", paths: Paths{Target: dst}, want: ErrPathsRequired},
		{name: "empty target", paths: Paths{Source: src}, want: ErrPathsRequired},
		{name: "missing source", paths: Paths{Source: missing, Target: dst}, want: ErrSourceNotFound},
		{name: "missing target", paths: Paths{Source: src, Target: missing}, want: ErrTargetNotFound},
		{name: "same folder", paths: Paths{Source: src, Target: src}, want: ErrSameFolder},
		{name: "same folder spelled differently", paths: Paths{Source: src, Target: filepath.Join(src, "..", filepath.Base(src))}, want: ErrSameFolder},
		{name: "target inside source", paths: Paths{Source: src, Target: nested}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.paths)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_SymlinkToSource(t *testing.T) {
	src := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(src, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	assert.ErrorIs(t, Validate(Paths{Source: src, Target: link}), ErrSameFolder)
	assert.ErrorIs(t, Validate(Paths{Source: link, Target: src}), ErrSameFolder)
}

func TestPathStore_LoadRejectsSameFolder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "dropfix.conf")
	content := "[Paths]\nsource = " + dir + "\ntarget = " + dir + "\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	got, ok := NewPathStore(file).Load()
	assert.False(t, ok)
	assert.True(t, got.IsZero())

	err := NewPathStore(file).Save(Paths{Source: dir, Target: dir})
	assert.ErrorIs(t, err, ErrSameFolder)
}

func TestPathStore_SaveLoad(t *testing.T) {
	store := NewPathStore(filepath.Join(t.TempDir(), "dropfix.conf"))
	want := Paths{Source: t.TempDir(), Target: t.TempDir()}

	require.NoError(t, store.Save(want))

	data, err := os.ReadFile(store.File())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Paths]")

	got, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPathStore_LoadAbsent(t *testing.T) {
	store := NewPathStore(filepath.Join(t.TempDir(), "dropfix.conf"))

	got, ok := store.Load()
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestPathStore_LoadInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dropfix.conf")
	content := "[Paths]\nsource = /definitely/not/here\ntarget = " + t.TempDir() + "\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	got, ok := NewPathStore(file).Load()
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestPathStore_SaveRejectsInvalid(t *testing.T) {
	store := NewPathStore(filepath.Join(t.TempDir(), "dropfix.conf"))

	err := store.Save(Paths{Source: "", Target: t.TempDir()})
	assert.ErrorIs(t, err, ErrPathsRequired)

	_, statErr := os.Stat(store.File())
	assert.True(t, os.IsNotExist(statErr))
}
