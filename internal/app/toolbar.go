package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/godtr/internal/events"
)

// actionButton creates a button whose availability follows the session's
// enable signal for action. Buttons start disabled until the first signal.
func (a *App) actionButton(action events.Action, label string, icon fyne.Resource, tapped func()) *widget.Button {
	b := widget.NewButtonWithIcon(label, icon, tapped)
	b.Disable()
	a.buttons[action] = b
	return b
}

func (a *App) buildToolbar() fyne.CanvasObject {
	navigation := container.NewHBox(
		a.actionButton(events.First, "", theme.MediaSkipPreviousIcon(), func() { a.session.First() }),
		a.actionButton(events.Prev, "", theme.NavigateBackIcon(), func() { a.session.Prev() }),
		a.actionButton(events.Next, "", theme.NavigateNextIcon(), func() { a.session.Next() }),
		a.actionButton(events.Last, "", theme.MediaSkipNextIcon(), func() { a.session.Last() }),
	)

	view := container.NewHBox(
		widget.NewButton("Projection", func() { a.session.ToggleProjection() }),
		widget.NewButton("Mapped/Measured", func() { a.session.ToggleDisplayMode() }),
		a.visibilityCheck("Cube", true, func(on bool) { a.session.ShowCube(on) }),
		a.visibilityCheck("Lines", false, func(on bool) { a.session.ShowLines(on) }),
		a.visibilityCheck("Background", false, func(on bool) { a.session.ShowBackground(on) }),
	)

	axis := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() { a.session.DecrementTiltAxis() }),
		widget.NewButton("Tilt axis...", a.showTiltAxisDialog),
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { a.session.IncrementTiltAxis() }),
	)

	cell := container.NewHBox(
		a.actionButton(events.RefineStep, "Refine step", nil, func() { a.session.RefineStep() }),
		a.actionButton(events.RefineSequence, "Refine sequence", nil, func() { a.session.RefineSequence() }),
		a.actionButton(events.ExtractIntensities, "Extract intensities", nil, func() { a.session.ExtractIntensities() }),
	)

	indexer := container.NewHBox(
		a.actionButton(events.IndexerStart, "Index", theme.MediaPlayIcon(), func() { a.session.StartIndexer() }),
		a.actionButton(events.IndexerStop, "", theme.MediaStopIcon(), func() { a.session.StopIndexer() }),
		a.actionButton(events.IndexerRerun, "", theme.MediaReplayIcon(), func() { a.session.RerunIndexer() }),
	)

	return container.NewHBox(
		navigation, widget.NewSeparator(),
		view, widget.NewSeparator(),
		axis, widget.NewSeparator(),
		cell, widget.NewSeparator(),
		indexer,
	)
}

// visibilityCheck creates a check box without firing its callback for the
// initial state
func (a *App) visibilityCheck(label string, checked bool, changed func(bool)) *widget.Check {
	c := widget.NewCheck(label, nil)
	c.Checked = checked
	c.OnChanged = changed
	return c
}

func (a *App) showTiltAxisDialog() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("offset in degrees")
	items := []*widget.FormItem{widget.NewFormItem("Tilt axis offset", entry)}

	dialog.ShowForm("Adjust tilt axis", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		// Invalid text is reported through the error dialog
		_ = a.session.SetTiltAxisText(entry.Text)
	}, a.window)
}
