package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"

	"bunkrelay/pkg/logger"
)

type counter interface {
	Count() int
}

type Handlers struct {
	log     logger.Logger
	hub     counter
	started time.Time
}

func New(log logger.Logger, hub counter) *Handlers {
	return &Handlers{
		log:     log,
		hub:     hub,
		started: time.Now(),
	}
}

// StatusHandler reports relay health: uptime, host CPU, memory, and the live
// connection count. Messages themselves are never exposed here, they exist
// only in flight.
func (h *Handlers) StatusHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	percent, _ := cpu.Percent(0, false)
	if len(percent) == 0 {
		percent = append(percent, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime":      time.Since(h.started).Truncate(time.Second).String(),
		"cpu_percent": percent[0],
		"memory_mb":   m.Sys / 1024 / 1024,
		"goroutines":  runtime.NumGoroutine(),
		"connections": h.hub.Count(),
	})
}
