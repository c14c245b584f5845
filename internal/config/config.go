package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the pipeline's static configuration: non-secret topology and
// tuning in YAML, secrets from the environment (optionally via a .env
// file during local development).
type Config struct {
	Exchange struct {
		WSEndpoint string   `yaml:"ws_endpoint"`
		Symbols    []string `yaml:"symbols"`
	} `yaml:"exchange"`

	Redis struct {
		Host          string `yaml:"host"`
		Port          string `yaml:"port"`
		ConsumerGroup string `yaml:"consumer_group"`
	} `yaml:"redis"`

	Analyzer struct {
		RsiPeriod          int       `yaml:"rsi_period"`
		RsiOverbought      float64   `yaml:"rsi_overbought"`
		RsiOversold        float64   `yaml:"rsi_oversold"`
		VolumeWindowSize   int       `yaml:"volume_window_size"`
		VolumeThreshold    float64   `yaml:"volume_threshold"`
		WhaleWindowSeconds int       `yaml:"whale_window_seconds"`
		WhaleThreshold     float64   `yaml:"whale_threshold"`
		PsychLevels        []float64 `yaml:"psych_levels"`
		CooldownSeconds    int       `yaml:"cooldown_seconds"`
		LLMMaxTokens       int       `yaml:"llm_max_tokens"`
		LLMTemperature     float64   `yaml:"llm_temperature"`
	} `yaml:"analyzer"`

	Storage struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	// Secrets, populated from the environment, never from YAML.
	RedisPassword string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	TTSBaseURL    string
	TTSAPIKey     string
}

func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", yamlPath, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", yamlPath, err)
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	cfg.LLMModel = os.Getenv("LLM_MODEL")
	cfg.TTSBaseURL = os.Getenv("TTS_BASE_URL")
	cfg.TTSAPIKey = os.Getenv("TTS_API_KEY")

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}
	if c.Redis.ConsumerGroup == "" {
		c.Redis.ConsumerGroup = "marketpulse"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "marketpulse.db"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
