package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

func (a *App) buildMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Load unit cell...", func() {
			a.openPath(func(path string) { _ = a.session.LoadCell(path) })
		}),
		fyne.NewMenuItem("Save unit cell...", func() {
			a.savePath("cell.yaml", func(path string) { _ = a.session.SaveCell(path) })
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save image analysis to cache...", func() {
			a.savePath("cache.yaml", func(path string) { _ = a.session.SaveCache(path) })
		}),
		fyne.NewMenuItem("Save reflections...", func() {
			a.savePath("reflections.hkl", func(path string) { _ = a.session.SaveReflections(path) })
		}),
	)

	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle projection", a.session.ToggleProjection),
		fyne.NewMenuItem("Toggle mapped/measured", a.session.ToggleDisplayMode),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("First image", func() { a.session.First() }),
		fyne.NewMenuItem("Last image", func() { a.session.Last() }),
	)

	tools := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Adjust tilt axis...", a.showTiltAxisDialog),
		fyne.NewMenuItem("Extract intensities", func() { a.session.ExtractIntensities() }),
	)

	return fyne.NewMainMenu(file, view, tools)
}

// openPath asks for an existing file. Errors from the dialog itself are
// shown; errors from use are reported by the session.
func (a *App) openPath(use func(path string)) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		use(path)
	}, a.window)
}

// savePath asks for a file to write. The chosen file is closed again before
// use writes it by path.
func (a *App) savePath(name string, use func(path string)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		use(path)
	}, a.window)
	d.SetFileName(name)
	d.Show()
}
