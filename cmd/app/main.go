// Image Editor - adjust, rotate and flip raster images
// License: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"image-editor/internal/cli"
	"image-editor/internal/core"
	"image-editor/internal/gui"
)

const (
	AppID      = "com.strauhmanis.image-editor"
	AppVersion = "3.0.0"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(AppVersion)
	if err := cli.Execute(ctx, launchGUI, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func launchGUI(ctx context.Context, rt *cli.Runtime) error {
	rt.Logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": rt.Config.Debug,
	}).Info("Starting Image Editor")

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	newController := func(opts ...core.Option) (*core.Controller, error) {
		return rt.NewController(rt.Config.PreviewFitWidth, rt.Config.PreviewFitHeight, opts...)
	}
	editor, err := gui.NewApplication(ctx, myApp, newController, rt.Config.PreviewDelay, rt.Logger)
	if err != nil {
		return err
	}
	editor.ShowAndRun()

	rt.Logger.Info("Application shutting down gracefully")
	return ctx.Err()
}
