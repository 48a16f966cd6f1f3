package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/config"
	"github.com/cci-ingenieria/lectorqr/internal/display"
	"github.com/cci-ingenieria/lectorqr/internal/launcher"
	"github.com/cci-ingenieria/lectorqr/internal/log"
	"github.com/cci-ingenieria/lectorqr/internal/notify"
	"github.com/cci-ingenieria/lectorqr/internal/opencv"
	"github.com/cci-ingenieria/lectorqr/internal/scanner"
	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

const windowTitle = "Sistema gestor de escaneo CCI Ingeniería"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log.Init(cfg.LogLevel)

	log.Info("lector starting",
		"kiosk", cfg.KioskID,
		"api", cfg.APIURL,
		"camera", cfg.CameraIndex,
		"cooldown", cfg.ScanCooldown,
		"message_duration", cfg.MessageDuration,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Camera. Without one the window still runs with an empty video panel.
	var (
		feed   display.FrameFeed
		poller *capture.Poller
	)
	cam, err := opencv.OpenCamera(cfg.CameraIndex, cfg.FrameWidth, cfg.FrameHeight)
	if err != nil {
		log.Warn("camera unavailable, continuing without video", "error", err)
	} else {
		log.Info("camera opened", "index", cfg.CameraIndex)
		poller, err = capture.NewPoller(cam, cfg.PollInterval)
		if err != nil {
			log.Error("create poller", "error", err)
			os.Exit(1)
		}
		if err := poller.Start(); err != nil {
			log.Error("start poller", "error", err)
			os.Exit(1)
		}
		feed = poller
	}

	var releaseOnce sync.Once
	release := func() {
		releaseOnce.Do(func() {
			if poller != nil {
				poller.Stop()
			}
			if cam != nil {
				if err := cam.Close(); err != nil {
					log.Warn("release camera", "error", err)
				}
			}
		})
	}
	defer release()

	detector := opencv.NewQRDetector()
	defer detector.Close()

	validator := validation.NewClient(cfg.APIURL, cfg.RequestTimeout)

	// Monitoring is optional; a dead monitor never blocks the gate.
	var pub scanner.Publisher
	if cfg.MonitorURL != "" {
		mon := notify.NewClient(cfg.MonitorURL, cfg.KioskID, cfg.SnapshotQuality)
		if err := mon.Connect(); err != nil {
			log.Warn("monitor disabled", "url", cfg.MonitorURL, "error", err)
		} else {
			defer mon.Close()
			pub = mon
		}
	}

	scan, err := scanner.New(detector, validator, scanner.Options{
		Cooldown:  cfg.ScanCooldown,
		Publisher: pub,
	})
	if err != nil {
		log.Error("create scanner", "error", err)
		os.Exit(1)
	}

	menu := launcher.New(cfg.MenuCommand)
	disp, err := display.NewEbitenDisplay(feed, scan, display.Options{
		Title:           windowTitle,
		MessageDuration: cfg.MessageDuration,
		PollInterval:    cfg.PollInterval,
		Done:            ctx.Done(),
		OnBack: func() {
			log.Info("back to menu")
			release()
			if _, err := menu.Launch(); err != nil {
				log.Error("launch menu", "error", err)
			}
		},
	})
	if err != nil {
		log.Error("create display", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scan.Run(gctx)
	})

	// Ebitengine RunGame must be on the main goroutine (macOS requirement).
	if err := disp.Run(); err != nil {
		log.Error("display", "error", err)
	}

	cancel()
	release()
	if err := g.Wait(); err != nil {
		log.Error("scanner", "error", err)
	}

	stats := scan.Stats()
	log.Info("lector stopped",
		"frames", stats.Submitted,
		"dropped", stats.Dropped,
		"accepted", stats.Accepted,
		"throttled", stats.Throttled,
	)
}
