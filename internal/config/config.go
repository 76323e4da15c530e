package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Worker     WorkerConfig     `koanf:"worker"`
	Optimizer  OptimizerConfig  `koanf:"optimizer"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Forms      FormsConfig      `koanf:"forms"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	Logging    LoggingConfig    `koanf:"logging"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

type StoreConfig struct {
	Driver string `koanf:"driver"` // memory | sqlite
	Path   string `koanf:"path"`
}

type WorkerConfig struct {
	Count      int `koanf:"count"`
	BufferSize int `koanf:"buffer_size"`
}

type OptimizerConfig struct {
	Delay time.Duration `koanf:"delay"`
}

type ClassifierConfig struct {
	Step   int           `koanf:"step"`
	Period time.Duration `koanf:"period"`
}

type FormsConfig struct {
	// SubmitDelay overrides every form's own delay. Negative keeps them.
	SubmitDelay time.Duration `koanf:"submit_delay"`
	TrackDelay  time.Duration `koanf:"track_delay"`
}

type RateLimitConfig struct {
	RPS   int `koanf:"rps"`
	Burst int `koanf:"burst"`
}

type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

// envKeys maps the supported environment variables to config keys.
var envKeys = map[string]string{
	"SERVER_HOST":        "server.host",
	"SERVER_PORT":        "server.port",
	"STORE_DRIVER":       "store.driver",
	"DB_PATH":            "store.path",
	"WORKER_COUNT":       "worker.count",
	"WORKER_BUFFER_SIZE": "worker.buffer_size",
	"OPTIMIZER_DELAY":    "optimizer.delay",
	"CLASSIFIER_STEP":    "classifier.step",
	"CLASSIFIER_PERIOD":  "classifier.period",
	"SUBMIT_DELAY":       "forms.submit_delay",
	"TRACK_DELAY":        "forms.track_delay",
	"RATE_LIMIT_RPS":     "rate_limit.rps",
	"RATE_LIMIT_BURST":   "rate_limit.burst",
	"CORS_ALLOW_ORIGINS": "cors.allow_origins",
	"LOG_LEVEL":          "logging.level",
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   ":memory:",
		},
		Worker: WorkerConfig{
			Count:      2,
			BufferSize: 20,
		},
		Optimizer: OptimizerConfig{
			Delay: 2 * time.Second,
		},
		Classifier: ClassifierConfig{
			Step:   5,
			Period: 100 * time.Millisecond,
		},
		Forms: FormsConfig{
			SubmitDelay: -1,
			TrackDelay:  1500 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 5,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load layers, lowest precedence first: defaults, the YAML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		if mapped == "cors.allow_origins" {
			return mapped, splitList(value)
		}
		return mapped, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires a path")
		}
	default:
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative")
	}
	if c.Optimizer.Delay < 0 {
		return fmt.Errorf("optimizer delay must not be negative")
	}
	if c.Classifier.Step < 1 || c.Classifier.Step > 100 {
		return fmt.Errorf("classifier step must be between 1 and 100: %d", c.Classifier.Step)
	}
	if c.Classifier.Period <= 0 {
		return fmt.Errorf("classifier period must be positive")
	}
	if c.Forms.TrackDelay < 0 {
		return fmt.Errorf("track delay must not be negative")
	}
	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
