package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bunkrelay/internal/app/adapters/socket"
	"bunkrelay/internal/app/domain/ephemeral"
	"bunkrelay/internal/app/infrastructure/config"
	"bunkrelay/internal/app/ports"
	"bunkrelay/pkg/logger"
)

// settings is the effective client configuration: the config file provides
// the base values, explicit flags override them, and anything still unset
// falls back to the package defaults.
type settings struct {
	endpoint       string
	reconnectDelay time.Duration
	ttl            time.Duration
	tick           time.Duration
}

func resolveSettings(cfg config.Client, url string, ttl, tick time.Duration) settings {
	s := settings{
		endpoint:       cfg.Endpoint,
		reconnectDelay: cfg.ReconnectDelay,
		ttl:            cfg.TTL,
		tick:           cfg.Tick,
	}

	if url != "" {
		s.endpoint = url
	}
	if ttl > 0 {
		s.ttl = ttl
	}
	if tick > 0 {
		s.tick = tick
	}

	if s.endpoint == "" {
		s.endpoint = socket.DefaultEndpoint
	}
	if s.reconnectDelay <= 0 {
		s.reconnectDelay = socket.DefaultReconnectDelay
	}
	if s.ttl <= 0 {
		s.ttl = ephemeral.DefaultTTL
	}
	if s.tick <= 0 {
		s.tick = time.Second
	}

	return s
}

// Terminal surface over the ephemeral store: every stdin line is posted,
// the live set is re-rendered once a tick with a countdown per message.
// Removal stays TTL-driven; the tick is display only.
func main() {
	configPath := flag.String("config", "config.json", "config file path")
	url := flag.String("url", "", "relay websocket endpoint (overrides config)")
	scope := flag.String("scope", "global", "surface label, client-side only")
	ttl := flag.Duration("ttl", 0, "message time-to-live (overrides config)")
	tick := flag.Duration("tick", 0, "render interval (overrides config)")
	flag.Parse()

	log := logger.New()
	log.SetLogLevel("warn")

	manager, err := config.New(*configPath)
	if err != nil {
		log.Fatal("Error loading config", err)
	}

	set := resolveSettings(manager.Get().Client, *url, *ttl, *tick)

	var sock ports.SocketPort = socket.New(logger.NewPrefixedLogger(log, "socket"), set.endpoint, set.reconnectDelay)
	sock.Start()
	defer sock.Stop()

	var store ports.StorePort = ephemeral.New(*scope, set.ttl, logger.NewPrefixedLogger(log, *scope), sock)
	unsubscribe := sock.Subscribe(store.Receive)
	defer unsubscribe()
	defer store.Clear()

	go readInput(store)

	ticker := time.NewTicker(set.tick)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			return
		case <-ticker.C:
			render(store, sock)
		}
	}
}

func readInput(store ports.StorePort) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		store.Post(sc.Text())
	}
}

func render(store ports.StorePort, sock ports.SocketPort) {
	msgs := store.List()
	now := time.Now()

	fmt.Print("\033[2J\033[H")
	fmt.Printf("%s • %s • %d live\n\n", store.Scope(), sock.State(), len(msgs))

	for _, m := range msgs {
		left := m.Remaining(store.TTL(), now)
		filled := 0
		if store.TTL() > 0 {
			filled = int(20 * left / store.TTL())
		}
		if filled > 20 {
			filled = 20
		}
		bar := strings.Repeat("#", filled) + strings.Repeat("-", 20-filled)
		fmt.Printf("%2ds [%s] %s\n", int(left.Round(time.Second).Seconds()), bar, m.Text)
	}
}
