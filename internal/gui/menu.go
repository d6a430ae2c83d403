// Menu, file dialogs and keyboard shortcuts
package gui

import (
	"context"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	imgio "image-editor/internal/io"
)

var (
	openShortcut  = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	saveShortcut  = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	resetShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
)

// MenuHandler runs the open and save dialogs.
type MenuHandler struct {
	window fyne.Window
	logger *logrus.Entry

	onLoad func(name string, data []byte)
	export func(ctx context.Context) ([]byte, error)
}

func NewMenuHandler(window fyne.Window, logger *logrus.Entry, onLoad func(string, []byte), export func(context.Context) ([]byte, error)) *MenuHandler {
	return &MenuHandler{
		window: window,
		logger: logger,
		onLoad: onLoad,
		export: export,
	}
}

func (mh *MenuHandler) GetMainMenu(onReset func()) *fyne.MainMenu {
	open := fyne.NewMenuItem("Open Image...", mh.OpenImage)
	open.Shortcut = openShortcut
	save := fyne.NewMenuItem("Save Image...", mh.SaveImage)
	save.Shortcut = saveShortcut
	reset := fyne.NewMenuItem("Reset Adjustments", onReset)
	reset.Shortcut = resetShortcut

	return fyne.NewMainMenu(
		fyne.NewMenu("File", open, save),
		fyne.NewMenu("Edit", reset),
	)
}

func (a *Application) setupShortcuts() {
	c := a.window.Canvas()
	c.AddShortcut(openShortcut, func(fyne.Shortcut) { a.menu.OpenImage() })
	c.AddShortcut(saveShortcut, func(fyne.Shortcut) {
		if a.controller.HasImage() {
			a.menu.SaveImage()
		}
	})
	c.AddShortcut(resetShortcut, func(fyne.Shortcut) { a.reset() })
}

func (mh *MenuHandler) OpenImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			mh.showError("Failed to Read Image", err)
			return
		}

		name := reader.URI().Name()
		mh.logger.WithFields(logrus.Fields{
			"file": name,
			"size": humanize.Bytes(uint64(len(data))),
		}).Info("Loading selected image")
		mh.onLoad(name, data)
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(imgio.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) SaveImage() {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return
		}

		go func() {
			defer writer.Close()

			data, err := mh.export(context.Background())
			if err == nil {
				_, err = writer.Write(data)
			}
			if err != nil {
				fyne.Do(func() { mh.showError("Failed to Save Image", err) })
				return
			}
			mh.logger.WithFields(logrus.Fields{
				"file": writer.URI().Path(),
				"size": humanize.Bytes(uint64(len(data))),
			}).Info("Image saved")
		}()
	}, mh.window)

	fileDialog.SetFileName(imgio.DefaultFilename(time.Now()))
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fileDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), mh.window)
}
