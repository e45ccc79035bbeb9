package config

import (
	"fmt"
	"net"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"GOMOKU_LOG_LEVEL" env-default:"info"`
	LogFile  string `yaml:"log-file" env:"GOMOKU_LOG_FILE" env-default:"gomoku.log"`
	Locale   string `yaml:"locale" env:"GOMOKU_LOCALE" env-default:"zh"`
	Board    Board  `yaml:"board"`
	Canvas   Canvas `yaml:"canvas"`
	HTTP     HTTP   `yaml:"http"`
	TUI      TUI    `yaml:"tui"`
	Redis    Redis  `yaml:"redis"`
}

type Board struct {
	Size         int  `yaml:"size" env:"GOMOKU_BOARD_SIZE" env-default:"15"`
	UndoAfterWin bool `yaml:"undo-after-win" env:"GOMOKU_UNDO_AFTER_WIN" env-default:"false"`
}

// Canvas is the geometry of the browser board the click endpoint maps from.
type Canvas struct {
	Width  float64 `yaml:"width" env:"GOMOKU_CANVAS_WIDTH" env-default:"600"`
	Margin float64 `yaml:"margin" env:"GOMOKU_CANVAS_MARGIN" env-default:"30"`
}

type HTTP struct {
	Host string `yaml:"host" env:"GOMOKU_HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"GOMOKU_HTTP_PORT" env-default:"9090"`
}

// TUI runs unless Headless is set.
type TUI struct {
	Headless bool `yaml:"headless" env:"GOMOKU_HEADLESS" env-default:"false"`
}

// Redis publishes game events when Enabled. Watch turns the process into a
// read-only spectator of the channel.
type Redis struct {
	Enabled bool   `yaml:"enabled" env:"GOMOKU_REDIS_ENABLED" env-default:"false"`
	Watch   bool   `yaml:"watch" env:"GOMOKU_REDIS_WATCH" env-default:"false"`
	Host    string `yaml:"host" env:"GOMOKU_REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"GOMOKU_REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"GOMOKU_REDIS_CHANNEL" env-default:"gomoku:events"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the YAML file at path and applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *HTTP) GetAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// OriginHosts lists the host:port values a browser page served by this
// server may send as its Origin. Loopback hosts accept every loopback name.
func (that *HTTP) OriginHosts() []string {
	switch that.Host {
	case "", "localhost", "127.0.0.1", "::1", "[::1]":
		return []string{
			net.JoinHostPort("localhost", that.Port),
			net.JoinHostPort("127.0.0.1", that.Port),
			net.JoinHostPort("::1", that.Port),
		}
	default:
		return []string{net.JoinHostPort(that.Host, that.Port)}
	}
}
