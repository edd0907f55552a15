package http

import (
	"fmt"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bunkrelay/internal/app/adapters/http/handlers"
	"bunkrelay/internal/app/adapters/relay"
	"bunkrelay/internal/app/infrastructure/config"
	"bunkrelay/pkg/logger"
)

type Router struct {
	router   *gin.Engine
	handlers *handlers.Handlers

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, hub *relay.Hub) *Router {
	r := &Router{
		router:   gin.Default(),
		handlers: handlers.New(log, hub),
		log:      log,
		manager:  manager,
	}
	cfg := manager.Get()

	// operational surface stays behind basic auth when a token is configured
	ops := r.router.Group("/")
	if cfg.App.AuthToken != "" {
		ops.Use(gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		}))
	} else {
		log.Warn("app.auth_token is empty, /metrics and pprof are unprotected")
	}
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.RouteRegister(ops)

	r.router.GET("/", r.handlers.StatusHandler)
	r.router.GET("/ws", hub.Handle)

	return r
}

func (r *Router) Run(port int) error {
	return r.router.Run(fmt.Sprintf(":%d", port))
}
