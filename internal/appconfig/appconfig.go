package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// BaseURLEnv overrides api.baseURL when set.
const BaseURLEnv = "USER_API_URL"

// Config holds all configuration details
type Config struct {
	API     APIConfig     `yaml:"api"`
	View    ViewConfig    `yaml:"view"`
	Pulsar  PulsarConfig  `yaml:"pulsar"`
	Server  ServerConfig  `yaml:"server"`
	Console ConsoleConfig `yaml:"console"`
}

// APIConfig defines how the remote user API is reached
type APIConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	UsersPath   string        `yaml:"usersPath"`
	Timeout     time.Duration `yaml:"timeout"`
	Mock        bool          `yaml:"mock"`
	MockLatency LatencyConfig `yaml:"mockLatency"`
}

// LatencyConfig is the simulated delay of each mock API call
type LatencyConfig struct {
	List   *time.Duration `yaml:"list"`
	Update *time.Duration `yaml:"update"`
	Delete *time.Duration `yaml:"delete"`
	Status *time.Duration `yaml:"status"`
}

type ViewConfig struct {
	PageSize int `yaml:"pageSize"`
}

// PulsarConfig defines the messaging system connection details. An empty
// URL disables user events.
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

// ServerConfig defines the data seeded into the mock user API server
type ServerConfig struct {
	SeedUsers  int   `yaml:"seedUsers"`
	SeedGroups int   `yaml:"seedGroups"`
	Seed       int64 `yaml:"seed"`
}

type ConsoleConfig struct {
	HistoryFile string `yaml:"historyFile"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:3001"
	}
	if c.API.UsersPath == "" {
		c.API.UsersPath = "/users"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 10 * time.Second
	}
	setDuration(&c.API.MockLatency.List, time.Second)
	setDuration(&c.API.MockLatency.Update, 500*time.Millisecond)
	setDuration(&c.API.MockLatency.Delete, 500*time.Millisecond)
	setDuration(&c.API.MockLatency.Status, 300*time.Millisecond)
	if c.View.PageSize <= 0 {
		c.View.PageSize = 10
	}
	if c.Pulsar.TopicProducer == "" {
		c.Pulsar.TopicProducer = "user-events"
	}
	if c.Pulsar.TopicConsumer == "" {
		c.Pulsar.TopicConsumer = c.Pulsar.TopicProducer
	}
	if c.Pulsar.Subscription == "" {
		c.Pulsar.Subscription = "user-admin"
	}
	if c.Server.SeedUsers <= 0 {
		c.Server.SeedUsers = 100
	}
	if c.Server.SeedGroups <= 0 {
		c.Server.SeedGroups = 10
	}
	if c.Console.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Console.HistoryFile = home + "/.user-admin_history"
		}
	}
	if url := os.Getenv(BaseURLEnv); url != "" {
		c.API.BaseURL = url
	}
}

// A latency explicitly set to zero is kept.
func setDuration(d **time.Duration, def time.Duration) {
	if *d == nil {
		*d = &def
	}
}

// LoadConfig loads and parses the configuration from a given file path. An
// empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		log.Debug().Msg("no config file provided, using defaults")
		return Defaults(), nil
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	// Create a map of environment variables
	envVars := loadEnvVars()

	// Execute the template with environment variables
	var buf bytes.Buffer
	err = tmpl.Option("missingkey=zero").Execute(&buf, envVars)
	if err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	return parse(buf.Bytes())
}

func parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if config.View.PageSize < 0 {
		return nil, errors.New("view.pageSize must not be negative")
	}

	config.applyDefaults()
	return &config, nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
