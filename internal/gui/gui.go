package gui

import (
	"dropfix/internal/config"
	"dropfix/internal/daemon"
	"dropfix/internal/logger"
	"dropfix/internal/model"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const appID = "io.dropfix.app"

// Shell is the desktop window: folder settings, log tail and status bar,
// with a tray icon when the platform offers one.
type Shell struct {
	cfg     *config.Config
	service *daemon.Service

	app fyne.App
	win fyne.Window

	sourceEntry *widget.Entry
	targetEntry *widget.Entry
	saveButton  *widget.Button
	logGrid     *widget.TextGrid
	logScroll   *container.Scroll
	stateLabel  *widget.Label
	statsLabel  *widget.Label

	hasTray bool
}

func New(cfg *config.Config, service *daemon.Service) *Shell {
	a := app.NewWithID(appID)
	s := &Shell{
		cfg:     cfg,
		service: service,
		app:     a,
		win:     a.NewWindow("dropfix"),
	}

	s.win.SetContent(s.layout())
	s.win.Resize(fyne.NewSize(800, 600))
	s.win.CenterOnScreen()
	s.setupTray()

	return s
}

// Run blocks until the user quits or stopCh fires. With minimized set and a
// tray available the window starts hidden.
func (s *Shell) Run(minimized bool, stopCh <-chan struct{}) {
	done := make(chan struct{})

	lc := s.app.Lifecycle()
	lc.SetOnStarted(func() {
		fyne.Do(s.refresh)
		if minimized && s.hasTray {
			s.app.SendNotification(fyne.NewNotification("dropfix", "Running in the background"))
		}
		go s.poll(done)
		go s.quitOn(stopCh, done)
	})
	lc.SetOnStopped(func() {
		close(done)
	})

	if minimized && s.hasTray {
		s.app.Run()
		return
	}

	s.win.ShowAndRun()
}

func (s *Shell) layout() fyne.CanvasObject {
	paths := s.service.Paths()

	s.sourceEntry = widget.NewEntry()
	s.sourceEntry.SetPlaceHolder("folder to watch")
	s.sourceEntry.SetText(paths.Source)

	s.targetEntry = widget.NewEntry()
	s.targetEntry.SetPlaceHolder("folder to move corrected files into")
	s.targetEntry.SetText(paths.Target)

	s.saveButton = widget.NewButton("Save", s.save)
	s.saveButton.Importance = widget.HighImportance

	settings := container.NewVBox(
		s.folderRow("Source folder:", s.sourceEntry),
		s.folderRow("Target folder:", s.targetEntry),
		container.NewCenter(s.saveButton),
	)

	s.logGrid = widget.NewTextGrid()
	s.logScroll = container.NewScroll(s.logGrid)

	clearButton := widget.NewButton("Clear log", s.clearLog)
	trayButton := widget.NewButton("Minimize to tray", s.hide)
	if !s.hasTrayDriver() {
		trayButton.Disable()
	}

	s.stateLabel = widget.NewLabel("")
	s.stateLabel.TextStyle = fyne.TextStyle{Bold: true}
	s.statsLabel = widget.NewLabel("")

	bottom := container.NewVBox(
		container.NewHBox(clearButton, trayButton),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, s.stateLabel, s.statsLabel),
	)

	top := container.NewVBox(settings, widget.NewSeparator(), widget.NewLabel("Log"))
	return container.NewBorder(top, bottom, nil, nil, s.logScroll)
}

func (s *Shell) folderRow(label string, entry *widget.Entry) fyne.CanvasObject {
	browse := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, s.win)
				return
			}
			if uri == nil {
				return
			}
			entry.SetText(uri.Path())
		}, s.win)
	})

	return container.NewBorder(nil, nil, widget.NewLabel(label), browse, entry)
}

func (s *Shell) save() {
	paths := config.Paths{
		Source: strings.TrimSpace(s.sourceEntry.Text),
		Target: strings.TrimSpace(s.targetEntry.Text),
	}

	s.saveButton.Disable()

	// rescheduling waits for the worker to finish its current file
	go func() {
		err := s.service.SaveSettings(paths)

		fyne.Do(func() {
			s.saveButton.Enable()
			if err != nil {
				logger.Log.Error("failed to save settings", zap.Error(err))
				dialog.ShowError(err, s.win)
				return
			}

			logger.Log.Info("settings saved",
				zap.String("source", paths.Source),
				zap.String("target", paths.Target))
			dialog.ShowInformation("Saved", "Settings saved, watching restarted", s.win)
			s.refresh()
		})
	}()
}

func (s *Shell) clearLog() {
	if err := logger.Clear(); err != nil {
		dialog.ShowError(err, s.win)
		return
	}

	s.refresh()
}

func (s *Shell) poll(done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			fyne.Do(s.refresh)
		}
	}
}

func (s *Shell) quitOn(stopCh <-chan struct{}, done <-chan struct{}) {
	select {
	case <-stopCh:
		logger.Log.Info("stop requested via API")
		fyne.Do(s.app.Quit)
	case <-done:
	}
}

// refresh must run on the UI goroutine.
func (s *Shell) refresh() {
	lines, err := logger.Tail(s.cfg.LogTailLines)
	if err != nil {
		lines = []string{"log unavailable: " + err.Error()}
	}

	text := strings.Join(lines, "\n")
	if text != s.logGrid.Text() {
		s.logGrid.SetText(text)
		s.logScroll.ScrollToBottom()
	}

	st := s.service.Status()

	s.stateLabel.SetText(stateText(st))
	s.stateLabel.Importance = stateImportance(st.State)
	s.stateLabel.Refresh()

	s.statsLabel.SetText(st.Intake.Counters.String())
	s.statsLabel.Importance = widget.MediumImportance
	if st.Intake.Counters.Errors > 0 {
		s.statsLabel.Importance = widget.DangerImportance
	}
	s.statsLabel.Refresh()
}

func (s *Shell) setupTray() {
	desk, ok := s.app.(desktop.App)
	if !ok {
		return
	}

	show := fyne.NewMenuItem("Show", s.show)
	quit := fyne.NewMenuItem("Quit", s.app.Quit)
	quit.IsQuit = true

	desk.SetSystemTrayMenu(fyne.NewMenu("dropfix", show, quit))
	s.win.SetCloseIntercept(s.hide)
	s.hasTray = true
}

func (s *Shell) hasTrayDriver() bool {
	_, ok := s.app.(desktop.App)
	return ok
}

func (s *Shell) show() {
	s.win.Show()
	s.win.RequestFocus()
}

func (s *Shell) hide() {
	if !s.hasTray {
		return
	}
	s.win.Hide()
}

func stateText(st model.Status) string {
	if st.LastErr != "" && st.State == model.StateFailed {
		return "Status: " + string(st.State) + " (" + st.LastErr + ")"
	}
	return "Status: " + string(st.State)
}

func stateImportance(state model.State) widget.Importance {
	switch state {
	case model.StateWatching, model.StateRunning:
		return widget.SuccessImportance
	case model.StateNotConfigured, model.StateStopped:
		return widget.WarningImportance
	default:
		return widget.DangerImportance
	}
}
