package pipeline

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	windowLimit     = 4096
	windowRetention = time.Minute
)

// Window admits the first event for a path and discards any event that
// arrives less than the window after the last admitted one. Entries expire
// on their own, so memory stays bounded no matter how many paths pass by.
type Window struct {
	d    time.Duration
	last *expirable.LRU[string, time.Time]
}

func NewWindow(d time.Duration) *Window {
	return &Window{
		d:    d,
		last: expirable.NewLRU[string, time.Time](windowLimit, nil, d+windowRetention),
	}
}

func (w *Window) Admit(path string, at time.Time) bool {
	if last, ok := w.last.Peek(path); ok && at.Sub(last) < w.d {
		return false
	}

	w.last.Add(path, at)
	return true
}

func (w *Window) Len() int {
	return w.last.Len()
}
