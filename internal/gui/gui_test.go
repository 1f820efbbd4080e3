package gui

import (
	"dropfix/internal/model"
	"testing"

	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
)

func TestStateImportance(t *testing.T) {
	assert.Equal(t, widget.SuccessImportance, stateImportance(model.StateWatching))
	assert.Equal(t, widget.SuccessImportance, stateImportance(model.StateRunning))
	assert.Equal(t, widget.WarningImportance, stateImportance(model.StateNotConfigured))
	assert.Equal(t, widget.WarningImportance, stateImportance(model.StateStopped))
	assert.Equal(t, widget.DangerImportance, stateImportance(model.StateFailed))
}

func TestStateText(t *testing.T) {
	assert.Equal(t, "Status: watching", stateText(model.Status{State: model.StateWatching}))
	assert.Equal(t, "Status: failed (boom)", stateText(model.Status{State: model.StateFailed, LastErr: "boom"}))
}
