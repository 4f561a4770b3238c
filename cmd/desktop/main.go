package main

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"cable-inspector/config"
	"cable-inspector/internal/container"
	"cable-inspector/internal/desktop"
	"cable-inspector/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	c, err := container.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	a := fyneapp.NewWithID("cable-inspector")
	win := desktop.New(a, c.SessionService, c.InspectionService)

	// Изображение можно передать первым аргументом
	if len(os.Args) > 1 {
		win.LoadPath(os.Args[1])
	}

	win.ShowAndRun()
}
