package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxnotify/internal/app"
	"fxnotify/internal/config"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/schedule"
	"fxnotify/internal/web"
)

type flagConfig struct {
	once       bool
	dumpConfig bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load()
	if err != nil {
		appLog.Error("failed to load config", err)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.Level(conf.LogLevel))

	if flags.dumpConfig {
		out, derr := conf.DumpYAML()
		if derr != nil {
			appLog.Error("failed to dump config", derr)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	appLog.Info("fxnotify starting",
		"feed_url", conf.FeedURL,
		"timezone", conf.Timezone,
		"min_impact", conf.MinImpact,
		"currencies", conf.Currencies,
		"max_upcoming", conf.MaxUpcoming,
		"schedule", fmt.Sprintf("%02d:%02d", conf.ScheduleHour, conf.ScheduleMinute),
		"max_retries", conf.MaxRetries,
		"http_timeout_s", conf.HTTPTimeoutSeconds,
		"prefetch_delay_s", conf.PrefetchDelaySeconds,
		"listen", conf.Listen,
		"once", flags.once,
	)

	loc, err := conf.Location()
	if err != nil {
		appLog.Error("invalid timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	pipeline := app.New(conf, loc)

	var statusSrv *web.Server
	if conf.Listen != "" {
		statusSrv = web.NewServer(conf, pipeline.LastRun)
		statusSrv.Start()
	}

	// Startup run, before the recurring trigger exists.
	appLog.Info("startup run")
	pipeline.RunOnce(ctx)

	if !flags.once {
		trigger, terr := schedule.NewDaily(loc, conf.ScheduleHour, conf.ScheduleMinute, func() {
			appLog.Info("daily trigger fired")
			pipeline.RunOnce(context.Background())
		})
		if terr != nil {
			appLog.Error("failed to register daily trigger", terr)
			os.Exit(1)
		}
		trigger.Start()

		<-ctx.Done()
		trigger.Stop()
	}

	if statusSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		statusSrv.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	appLog.Info("fxnotify exiting")
	appLog.Sync()
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+classify+deliver cycle and exit")
	flag.BoolVar(&cfg.dumpConfig, "dump-config", false, "Print the effective configuration as YAML and exit")

	flag.Parse()

	return cfg
}
