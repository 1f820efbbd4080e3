package intake

import (
	"bytes"
	"dropfix/internal/config"
	"dropfix/internal/logger"
	"dropfix/internal/util"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Mover relocates a file into dst: temp write, rename into place, then a
// best-effort removal of the source once the settle delay has passed.
type Mover struct {
	dst    string
	settle time.Duration
}

func NewMover(dst string, settle time.Duration) *Mover {
	return &Mover{dst: dst, settle: settle}
}

func (m *Mover) DstPath(src string) string {
	return filepath.Join(m.dst, filepath.Base(src))
}

// Move writes content to the destination path for src and removes src.
// Once the rename succeeds the copy is authoritative: a failed source removal
// is logged and does not fail the move. When src already lives in the
// destination folder the file is rewritten in place and kept.
func (m *Mover) Move(src string, content []byte) error {
	dstPath := m.DstPath(src)
	inPlace := config.SameDir(filepath.Dir(src), m.dst)

	if err := util.AtomicWrite(dstPath, bytes.NewReader(content)); err != nil {
		return err
	}

	if inPlace {
		logger.Log.Warn("source is the destination folder, file kept in place",
			zap.String("path", dstPath))
		return nil
	}

	time.Sleep(m.settle)

	if err := util.ForceRemove(src); err != nil {
		logger.Log.Error("failed to delete source file",
			zap.String("path", src),
			zap.Error(err))
	} else {
		logger.Log.Debug("source file deleted",
			zap.String("path", src))
	}

	return nil
}
