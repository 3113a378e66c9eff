package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"runtime"

	"cubeviewer/internal/app"
	"cubeviewer/internal/assets"
	"cubeviewer/internal/config"
	"cubeviewer/internal/gpu"
	"cubeviewer/internal/gpu/glcore"
	"cubeviewer/internal/logging"
	"cubeviewer/internal/platform"
)

var _ app.Window = (*platform.Window)(nil)

func init() {
	// glfw and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.json", "path to a JSON or YAML config file")
	flag.Parse()

	fmt.Println("Cube Viewer - OpenGL")
	fmt.Println("Controls:")
	fmt.Println("  Mouse         : Look around")
	fmt.Println("  W / S         : Forward / back")
	fmt.Println("  A / D         : Left / right")
	fmt.Println("  Space         : Up")
	fmt.Println("  Left Ctrl     : Down")
	fmt.Println("  Escape        : Exit")
	fmt.Println()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}
	gpu.SetLogger(logger)

	texture, err := assets.LoadRGBA(cfg.Assets.Texture)
	if err != nil {
		return fmt.Errorf("texture load failed: %w", err)
	}

	var icons []image.Image
	if cfg.Assets.Icon != "" {
		icons, err = assets.LoadIcons(cfg.Assets.Icon)
		if err != nil {
			logger.Warn("window icon unavailable", "err", err)
		}
	}

	window, err := platform.NewWindow(cfg.Window, icons)
	if err != nil {
		return err
	}
	defer window.Destroy()

	ctx, err := glcore.New()
	if err != nil {
		return err
	}
	version, renderer := ctx.Version()
	logger.Info("OpenGL context ready", "version", version, "renderer", renderer)

	application, err := app.New(window, ctx, cfg, texture, logger)
	if err != nil {
		return err
	}
	defer application.Cleanup()

	return application.Run()
}
