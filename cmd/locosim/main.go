package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/locomotion/scenario"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// locosim runs locomotion scenarios headlessly and checks their expectations.
func main() {
	settingsPath := flag.String("settings", "settings.toml", "path to the movement settings file")
	workers := flag.Int("workers", 0, "number of scenarios to run at once, 0 for one per CPU")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: locosim [-settings settings.toml] scenario.yaml...")
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	slog.SetDefault(slog.New(newLogrusHandler(logger)))

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logger.Fatalf("sentry init: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	conf, err := loadSettings(*settingsPath)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := atomic.NewInt32(0)
	pool := worker.New(*workers, slog.Default())
	for _, path := range flag.Args() {
		s, err := scenario.Load(path)
		if err != nil {
			logger.WithField("file", path).Error(err)
			failed.Inc()
			continue
		}
		if err := pool.Submit(s.Name, func() {
			if !runScenario(ctx, logger, s, conf) {
				failed.Inc()
			}
		}); err != nil {
			logger.Fatal(err)
		}
	}
	pool.Wait()
	pool.Close()

	if n := failed.Load() + int32(pool.Failed()); n > 0 {
		logger.Errorf("%d scenario(s) failed", n)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

// loadSettings loads the settings at path, writing the defaults there first if the file does
// not exist.
func loadSettings(path string) (settings.Settings, error) {
	if err := settings.SaveDefault(path); err != nil {
		return settings.Settings{}, err
	}
	return settings.Load(path)
}

// runScenario runs s and logs its report. It returns false if the run errored or its
// expectation did not hold.
func runScenario(ctx context.Context, logger *logrus.Logger, s scenario.Scenario, conf settings.Settings) bool {
	log := logger.WithField("scenario", s.Name)
	report, err := scenario.Run(ctx, s, conf, nil, slog.Default().With("scenario", s.Name))
	if err != nil {
		log.Error(err)
		return false
	}

	stats := report.SpeedStats()
	log.WithFields(logrus.Fields{
		"steps":       report.Steps,
		"transitions": report.Transitions,
		"mode":        report.Final.Mode,
		"stance":      report.Final.Stance,
		"gait":        report.Final.Gait,
		"action":      report.Final.Action,
		"location":    report.FinalLocation,
		"speed_mean":  stats.Mean,
		"speed_std":   stats.StdDev,
		"speed_max":   stats.Max,
	}).Info("scenario finished")
	log.Debug(report.Debug)
	for _, msg := range report.Messages {
		log.WithField("message", msg).Debug("character message")
	}

	if err := report.Verify(s.Expect); err != nil {
		log.WithError(err).Error("expectation failed")
		return false
	}
	return true
}
