package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"selection-engine/internal/engineconfig"
	"selection-engine/internal/graphics"
	"selection-engine/internal/logger"
)

func main() {
	configPath := pflag.String("config", engineconfig.ConfigPath, "path to the picker config file")
	logLevel := pflag.String("log-level", "", "log level override: trace, debug, info, warn, error")
	showFPS := pflag.Bool("fps", false, "show FPS and memory counters")
	points := pflag.Int("points", 48, "number of points in the demo point cloud")
	pflag.Parse()

	prefs, err := engineconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		prefs.LogLevel = *logLevel
	}

	log, err := logger.New(logger.LogFilePath, logger.ParseLevel(prefs.LogLevel), os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Close()

	a, err := newApp(prefs, *configPath, log, *points)
	if err != nil {
		zl := log.Zerolog()
		zl.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}
	a.overlay.ShowFPS = *showFPS
	a.overlay.ShowMemAlloc = *showFPS

	go readConsole(os.Stdin, a.console)

	graphics.Run(graphics.Config{Title: "selection picker", Width: 1280, Height: 800}, a.update, a.draw, a.close)
}
