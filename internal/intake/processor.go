package intake

import (
	"context"
	"dropfix/internal/logger"
	"dropfix/internal/model"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Processor runs the intake state machine for one destination folder.
type Processor struct {
	dst    string
	state  *State
	mover  *Mover
	settle time.Duration
}

func NewProcessor(dst string, state *State, settle time.Duration) (*Processor, error) {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, fmt.Errorf("invalid dst path: %w", err)
	}

	return &Processor{
		dst:    absDst,
		state:  state,
		mover:  NewMover(absDst, settle),
		settle: settle,
	}, nil
}

// Run handles events one at a time until inCh closes or ctx is done. The
// returned channel is closed when the worker exits; callers must drain it.
// Debounced and already in-flight events produce no result.
func (p *Processor) Run(ctx context.Context, inCh <-chan model.FileEvent) <-chan model.IntakeResult {
	outCh := make(chan model.IntakeResult, cap(inCh))

	go func() {
		defer close(outCh)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-inCh:
				if !ok {
					return
				}

				if result, ok := p.handle(ctx, event); ok {
					outCh <- result
				}
			}
		}
	}()

	return outCh
}

func (p *Processor) handle(ctx context.Context, event model.FileEvent) (result model.IntakeResult, ok bool) {
	if !p.state.Accept(event.Path, event.Timestamp) {
		logger.Log.Debug("duplicate event ignored",
			zap.String("path", event.Path))
		return result, false
	}

	if !p.state.Begin(event.Path) {
		logger.Log.Debug("file already in flight",
			zap.String("path", event.Path))
		return result, false
	}

	result = model.IntakeResult{
		Event:   event,
		SrcPath: event.Path,
		DstPath: p.mover.DstPath(event.Path),
	}

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = model.OutcomeFailed
			result.Modified = false
			result.Err = fmt.Errorf("panic while processing: %v", r)
			ok = true
		}
		p.state.Finish(event.Path, result)
	}()

	return p.process(ctx, result), true
}

func (p *Processor) process(ctx context.Context, result model.IntakeResult) model.IntakeResult {
	if !sleepCtx(ctx, p.settle) {
		logger.Log.Debug("shutdown before processing",
			zap.String("path", result.SrcPath))
		result.Outcome = model.OutcomeSkipped
		return result
	}

	data, err := os.ReadFile(result.SrcPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Log.Debug("file no longer exists, likely handled already",
				zap.String("path", result.SrcPath))
			result.Outcome = model.OutcomeSkipped
			return result
		}

		result.Outcome = model.OutcomeFailed
		result.Err = fmt.Errorf("failed to read %s: %w", result.SrcPath, err)
		logger.Log.Error("intake failed",
			zap.String("path", result.SrcPath),
			zap.Error(result.Err))
		return result
	}

	content, modified := Fix(string(data))
	if modified {
		logger.Log.Info("line 7 corrected",
			zap.String("path", result.SrcPath))
	}

	if err := p.mover.Move(result.SrcPath, []byte(content)); err != nil {
		result.Outcome = model.OutcomeFailed
		result.Err = err
		logger.Log.Error("intake failed",
			zap.String("path", result.SrcPath),
			zap.Error(err))
		return result
	}

	result.Outcome = model.OutcomeDone
	result.Modified = modified

	if modified {
		logger.Log.Info("file corrected and moved",
			zap.String("src", result.SrcPath),
			zap.String("dst", result.DstPath))
	} else {
		logger.Log.Info("file moved",
			zap.String("src", result.SrcPath),
			zap.String("dst", result.DstPath))
	}

	return result
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
