// Package app is the fyne front end of the godtr viewer
package app

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/godtr/internal/config"
	"github.com/philipparndt/godtr/internal/events"
	"github.com/philipparndt/godtr/internal/logging"
	"github.com/philipparndt/godtr/internal/session"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/philipparndt/godtr/pkg/watcher"
)

// Options select what the viewer opens
type Options struct {
	SessionPath string
	CellPath    string // optional
	Config      *config.Config
	Logger      *slog.Logger
}

// App is one viewer window
type App struct {
	window   fyne.Window
	session  *session.Session
	log      *slog.Logger
	cfg      *config.Config
	opts     Options
	watcher  *watcher.FileWatcher
	recon    *ReconstructionView
	stack    *StackView
	status   *widget.Label
	messages *messageLog
	buttons  map[events.Action]*widget.Button
}

// Run opens the viewer and blocks until its window is closed
func Run(opts Options) error {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	base := logging.OrDefault(opts.Logger)

	images, err := tiltseries.Load(opts.SessionPath)
	if err != nil {
		return err
	}

	fa := fyneapp.NewWithID("io.github.philipparndt.godtr")
	a := &App{
		window:  fa.NewWindow("godtr - " + images.Name),
		cfg:     opts.Config,
		opts:    opts,
		buttons: make(map[events.Action]*widget.Button),
	}
	a.messages = newMessageLog()
	level, _ := logging.ParseLevel(opts.Config.Logging.Level)
	a.log = slog.New(logging.Fanout{base.Handler(), logging.NewMessageHandler(level, a.messages.Append)})

	bus := events.NewBus()
	toolbar := a.buildToolbar()
	a.bindEvents(bus)

	a.session = session.New(images, session.Options{
		Reprojection: lattice.NewReprojector(
			opts.Config.Reprojection.Tolerance,
			opts.Config.Reprojection.MatchRadius,
			opts.Config.Reprojection.MaxIndex),
		AxisStep: opts.Config.Axis.Step,
		Bus:      bus,
		Logger:   a.log,
	})

	a.recon = NewReconstructionView(a.session)
	a.stack = NewStackView(a.session, a.log)
	a.status = widget.NewLabel("")
	a.session.AttachSurface(a.recon)

	if opts.CellPath != "" {
		// A broken cell file is reported and the viewer opens without it
		_ = a.session.LoadCell(opts.CellPath)
	}
	a.startWatching()

	tabs := container.NewAppTabs(
		container.NewTabItem("Image stack", a.stack),
		container.NewTabItem("Messages", a.messages.View()),
	)
	split := container.NewHSplit(a.recon, tabs)
	split.SetOffset(0.5)

	a.window.SetMainMenu(a.buildMenu())
	a.window.SetContent(container.NewBorder(toolbar, a.status, nil, nil, split))
	a.window.Resize(fyne.NewSize(float32(opts.Config.Window.Width), float32(opts.Config.Window.Height)))
	a.window.SetOnClosed(a.close)

	a.updateStatus()
	a.log.Info("session opened", "name", images.Name, "images", images.Count())
	a.window.ShowAndRun()
	return nil
}

// bindEvents connects the session's outward signals to the widgets. It runs
// before the session exists so the initial enable signals are not missed.
func (a *App) bindEvents(bus *events.Bus) {
	bus.On(events.RenderRequested, func(events.Event) {
		if a.recon == nil {
			return
		}
		a.recon.Refresh()
		a.stack.Refresh()
		a.updateStatus()
	})
	bus.On(events.ErrorReported, func(e events.Event) {
		dialog.ShowError(e.Err, a.window)
	})
	bus.On(events.EnableChanged, func(e events.Event) {
		b, ok := a.buttons[e.Action]
		if !ok {
			return
		}
		if e.Enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	})

	// No indexer or refinement program is attached to the viewer itself;
	// requests are logged for whoever drives them
	for _, k := range []events.Kind{
		events.IndexerStartRequested,
		events.IndexerStopRequested,
		events.IndexerRerunRequested,
		events.RefineStepRequested,
		events.RefineSequenceRequested,
	} {
		bus.On(k, func(e events.Event) {
			a.log.Info("request not handled: no external program attached", "request", e.Kind.String())
		})
	}
}

func (a *App) updateStatus() {
	if a.status == nil {
		return
	}
	var parts []string
	if img := a.session.CurrentImage(); img != nil {
		parts = append(parts, fmt.Sprintf("image %d/%d", a.session.Index()+1, a.session.Count()),
			fmt.Sprintf("tilt %.2f deg", img.Tilt*180/math.Pi))
	} else {
		parts = append(parts, "no images")
	}
	view := a.session.View()
	parts = append(parts, view.Projection.String(), view.DisplayMode.String())
	if m := a.session.Lattice(); m != nil {
		parts = append(parts, fmt.Sprintf("lattice v%d", m.Version))
	}
	a.status.SetText(strings.Join(parts, "   "))
}

// startWatching reloads the cell and session files when another program
// rewrites them
func (a *App) startWatching() {
	if !a.cfg.Watch.Enabled {
		return
	}
	fw, err := watcher.NewFileWatcher(a.cfg.Watch.Debounce, a.log)
	if err != nil {
		a.log.Warn("file watching disabled", "error", err)
		return
	}

	if a.opts.CellPath != "" {
		if err := fw.Watch([]string{a.opts.CellPath}, func(path string) {
			fyne.Do(func() { _ = a.session.LoadCell(path) })
		}); err != nil {
			a.log.Warn("cannot watch cell file", "error", err)
		}
	}
	if err := fw.Watch([]string{a.opts.SessionPath}, func(path string) {
		images, err := tiltseries.Load(path)
		fyne.Do(func() {
			if err != nil {
				a.log.Warn("cannot reload tilt series", "error", err)
				return
			}
			a.stack.Invalidate()
			a.session.Reload(images)
		})
	}); err != nil {
		a.log.Warn("cannot watch session file", "error", err)
	}

	fw.Start()
	a.watcher = fw
}

func (a *App) close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("error closing watcher", "error", err)
		}
	}
	a.session.Close()
}
