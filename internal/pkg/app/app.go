package app

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"

	router "bunkrelay/internal/app/adapters/http"
	"bunkrelay/internal/app/adapters/metrics"
	"bunkrelay/internal/app/adapters/relay"
	"bunkrelay/internal/app/infrastructure/config"
	"bunkrelay/internal/app/infrastructure/timers"
	"bunkrelay/internal/app/ports"
	"bunkrelay/pkg/logger"
)

const configPath = "config.json"

func New() error {
	log := logger.New()

	manager, err := config.New(configPath)
	if err != nil {
		log.Fatal("Error loading config", err)
	}

	cfg := manager.Get()
	log.SetLogLevel(cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	// PORT beats the config file, same convention the hosting environment uses
	port := cfg.Relay.Port
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 65535 {
			log.Warn("ignoring invalid PORT", slog.String("value", v))
		} else {
			port = p
		}
	}

	hub := relay.New(logger.NewPrefixedLogger(log, "relay"), cfg.Relay)
	go hub.Run()

	var tw ports.TimersPort = timers.NewTimingWheel(time.Second, 60)
	tw.AddTimer("system_stats", 15*time.Second, func() {
		percent, _ := cpu.Percent(0, false)
		if len(percent) > 0 {
			metrics.CPUUsage.Set(percent[0])
		}

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		metrics.MemoryUsage.Set(float64(ms.Sys))
	})

	r := router.NewRouter(log, manager, hub)
	go func() {
		if err := r.Run(port); err != nil {
			log.Fatal("HTTP server stopped", err)
		}
	}()

	log.Info("relay started", slog.Int("port", port))
	return nil
}
