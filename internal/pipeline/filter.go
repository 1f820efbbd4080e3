package pipeline

import (
	"dropfix/internal/model"
	"path/filepath"
	"strings"
)

// Rules decide which watcher events are eligible for intake.
type Rules struct {
	Extension  string
	TempSuffix string
}

func Filter(inCh <-chan model.FileEvent, rules Rules) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if !rules.Match(event) {
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}

func (r Rules) Match(event model.FileEvent) bool {
	if event.IsDir {
		return false
	}

	name := filepath.Base(event.Path)
	if r.TempSuffix != "" && strings.HasSuffix(name, r.TempSuffix) {
		return false
	}

	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(r.Extension))
}
