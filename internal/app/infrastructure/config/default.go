package config

import "time"

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			GinMode:  "release",
		},
		Relay: Relay{
			Port:           8081,
			MaxConnections: 256,
			SendBuffer:     16,
			Limiter: Limiter{
				Requests: 20,
				Per:      time.Second,
			},
		},
		Client: Client{
			ReconnectDelay: 2 * time.Second,
			TTL:            30 * time.Second,
			Tick:           time.Second,
		},
	}
}
