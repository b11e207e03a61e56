package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int    `mapstructure:"port"`
	SocketIOPort   int    `mapstructure:"socketio_port"`
	LogLevel       string `mapstructure:"log_level"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	RedisAddr      string `mapstructure:"redis_addr"`
	ResultsChannel string `mapstructure:"results_channel"`
	AdminJWTSecret string `mapstructure:"admin_jwt_secret"`
	// Seed makes every room's piece sequence reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("socketio_port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("redis_addr", "")
	v.SetDefault("results_channel", "blockfall:results")
	v.SetDefault("admin_jwt_secret", "")
	v.SetDefault("seed", 0)
}

// Load reads an optional config file and then the environment, which
// wins. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SocketIOPort < 0 || c.SocketIOPort > 65535 {
		return fmt.Errorf("invalid socketio_port %d", c.SocketIOPort)
	}
	if c.SocketIOPort == c.Port {
		return errors.New("socketio_port must differ from port")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SocketIOAddr is empty when the socket.io listener is disabled.
func (c Config) SocketIOAddr() string {
	if c.SocketIOPort == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.SocketIOPort)
}
