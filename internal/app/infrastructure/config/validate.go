package config

import (
	"errors"
	"fmt"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.App.LogLevel)
	}

	// relay
	if cfg.Relay.Port < 1 || cfg.Relay.Port > 65535 {
		return fmt.Errorf("relay.port must be in [1,65535]; got %d", cfg.Relay.Port)
	}
	if cfg.Relay.MaxConnections < 0 {
		return errors.New("relay.max_connections must be zero (unlimited) or positive")
	}
	if cfg.Relay.SendBuffer < 1 {
		return errors.New("relay.send_buffer must be at least 1")
	}
	if (cfg.Relay.Limiter.Requests != 0 && cfg.Relay.Limiter.Per == 0) || (cfg.Relay.Limiter.Requests == 0 && cfg.Relay.Limiter.Per != 0) {
		return errors.New("relay.limiter.requests and relay.limiter.per must both be set or both be zero")
	}

	// client
	if cfg.Client.ReconnectDelay < 0 {
		return errors.New("client.reconnect_delay must not be negative")
	}
	if cfg.Client.TTL < 0 {
		return errors.New("client.ttl must not be negative")
	}
	if cfg.Client.Tick < 0 {
		return errors.New("client.tick must not be negative")
	}

	return nil
}
