package config

import "time"

type Config struct {
	App    App    `json:"app"`
	Relay  Relay  `json:"relay"`
	Client Client `json:"client"`
}

type App struct {
	LogLevel  string `json:"log_level"`
	GinMode   string `json:"gin_mode"`
	AuthToken string `json:"auth_token"`
}

type Relay struct {
	Port           int     `json:"port"`
	MaxConnections int     `json:"max_connections"`
	SendBuffer     int     `json:"send_buffer"`
	Limiter        Limiter `json:"limiter"`
}

type Limiter struct {
	Requests int           `json:"requests"`
	Per      time.Duration `json:"per"`
}

type Client struct {
	Endpoint       string        `json:"endpoint"`
	ReconnectDelay time.Duration `json:"reconnect_delay"`
	TTL            time.Duration `json:"ttl"`
	Tick           time.Duration `json:"tick"`
}
