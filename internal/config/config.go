package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel      string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort      string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort    string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage       string        `yaml:"storage" env:"STORAGE" env-default:"memory"`
	SessionTTL    time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	AutoPlayDelay time.Duration `yaml:"autoplay-delay" env:"AUTOPLAY_DELAY" env-default:"1s"`
	Redis         Redis         `yaml:"redis"`
	Groq          Groq          `yaml:"groq"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Groq struct {
	APIKey  string        `yaml:"api-key" env:"GROQ_API_KEY" env-default:""`
	BaseURL string        `yaml:"base-url" env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	Timeout time.Duration `yaml:"timeout" env:"GROQ_TIMEOUT" env-default:"15s"`
	Seed    int64         `yaml:"seed" env:"MOVE_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path and applies env overrides.
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
