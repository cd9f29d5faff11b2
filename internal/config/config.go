package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath - переменная с путем к YAML, если флаг не задан
const EnvConfigPath = "MAZMORRA_CONFIG"

// Config корневая структура конфигурации приложения.
// Порядок: значения по умолчанию -> YAML -> переменные окружения MAZMORRA_*.
type Config struct {
	Server  ServerConfig  `yaml:"server" envPrefix:"MAZMORRA_SERVER_"`
	Game    GameConfig    `yaml:"game" envPrefix:"MAZMORRA_GAME_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"MAZMORRA_STORAGE_"`
	Auth    AuthConfig    `yaml:"auth" envPrefix:"MAZMORRA_AUTH_"`
	Log     LogConfig     `yaml:"log" envPrefix:"MAZMORRA_LOG_"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" env:"PORT"`
	APIPort        int      `yaml:"api_port" env:"API_PORT"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
}

type GameConfig struct {
	Seed               string        `yaml:"seed" env:"SEED"`
	TickRate           int           `yaml:"tick_rate" env:"TICK_RATE"`
	MaxClients         int           `yaml:"max_clients" env:"MAX_CLIENTS"`
	DisposeTimeout     time.Duration `yaml:"dispose_timeout" env:"DISPOSE_TIMEOUT"`
	DeadDisposeTimeout time.Duration `yaml:"dead_dispose_timeout" env:"DEAD_DISPOSE_TIMEOUT"`
	LevelCoefficient   float64       `yaml:"level_coefficient" env:"LEVEL_COEFFICIENT"`
	StrictInvariants   bool          `yaml:"strict_invariants" env:"STRICT_INVARIANTS"`
	PvP                bool          `yaml:"pvp" env:"PVP"`
	ReplayDir          string        `yaml:"replay_dir" env:"REPLAY_DIR"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver" env:"DRIVER"`
	BadgerPath  string `yaml:"badger_path" env:"BADGER_PATH"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisDB     int    `yaml:"redis_db" env:"REDIS_DB"`
	RedisPrefix string `yaml:"redis_prefix" env:"REDIS_PREFIX"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default - конфигурация для локального запуска
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			APIPort: 8081,
		},
		Game: GameConfig{
			TickRate:           20,
			MaxClients:         8,
			DisposeTimeout:     5 * time.Second,
			DeadDisposeTimeout: 120 * time.Second,
			LevelCoefficient:   50,
		},
		Storage: StorageConfig{
			Driver:      "memory",
			BadgerPath:  "data/heroes",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "mazmorra:hero:",
		},
		Auth: AuthConfig{
			JWTSecret: "development-secret-change-me",
			TokenTTL:  24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load читает YAML файл конфигурации и накладывает окружение.
// Если path == "", берется MAZMORRA_CONFIG; без файла остаются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate отсекает значения, с которыми сервер не сможет работать
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.APIPort < 0 || c.Server.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("server.api_port out of range: %d", c.Server.APIPort))
	}
	if c.Game.TickRate <= 0 || c.Game.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("game.tick_rate must be in 1..1000, got %d", c.Game.TickRate))
	}
	if c.Game.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("game.max_clients must be positive, got %d", c.Game.MaxClients))
	}
	if c.Game.LevelCoefficient <= 0 {
		errs = append(errs, fmt.Errorf("game.level_coefficient must be positive, got %v", c.Game.LevelCoefficient))
	}
	if c.Game.DisposeTimeout < 0 || c.Game.DeadDisposeTimeout < 0 {
		errs = append(errs, errors.New("dispose timeouts cannot be negative"))
	}
	switch c.Storage.Driver {
	case "memory", "badger", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 16 bytes"))
	}
	return errors.Join(errs...)
}
