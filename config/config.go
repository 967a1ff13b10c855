// Package config provides configuration management for the Platewise meal
// analysis server. Configuration is assembled once at process entry and passed
// into the components that need it; nothing in this package is consulted
// globally at request time.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration.
// It combines server settings, the Gemini backend configuration, the optional
// auth and normalizer toggles, prompt templates, and logging preferences into
// a single structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Auth       AuthConfig       `yaml:"auth"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Processing ProcessingConfig `yaml:"processing"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds server-specific configuration for the HTTP server.
// It defines timeouts, limits, and operational parameters.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 3000)
	Port int `yaml:"port" validate:"gte=0,lte=65535"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response (default: 90s, long enough to cover a slow model reply)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes caps the request body size. Requests exceeding the cap
	// are rejected before reaching the handler (default: 10MB, sized for
	// base64-encoded meal photos)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// ShutdownTimeout specifies how long to wait for the server to shutdown
	// gracefully before forcing termination (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LLMConfig holds configuration for the Gemini backend.
type LLMConfig struct {
	// APIKey is the Gemini API key. It is the one required setting: the
	// process refuses to start without it. Use environment variables
	// (e.g. ${GEMINI_API_KEY}) in config files for secure configuration.
	APIKey string `yaml:"api_key"`

	// Model is the Gemini model identifier (default: "gemini-1.5-flash")
	Model string `yaml:"model"`

	// Timeout bounds every backend call. A hung call is cut off at this
	// deadline and reported as an analysis failure (default: 60s)
	Timeout time.Duration `yaml:"timeout"`

	// CircuitBreaker optionally wraps the backend with a circuit breaker.
	// Disabled by default: the stock behavior is one attempt per request,
	// no retry, no fail-fast window.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig configures the optional breaker around the backend.
type CircuitBreakerConfig struct {
	// Enabled turns the circuit breaker on (default: false)
	Enabled bool `yaml:"enabled"`

	// MaxRequests is the maximum number of requests allowed to pass through
	// when the breaker is half-open
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval is the cyclic period of the closed state for clearing counts
	Interval time.Duration `yaml:"interval"`

	// Timeout is the period of the open state until it becomes half-open
	Timeout time.Duration `yaml:"timeout"`

	// FailureThreshold is the number of consecutive failures needed to trip
	FailureThreshold uint32 `yaml:"failure_threshold"`
}

// AuthConfig configures the shared-secret check on the analysis endpoint.
// It is off by default; the liveness, health, and metrics routes are never
// behind it.
type AuthConfig struct {
	// Enabled turns the shared-secret check on (default: false)
	Enabled bool `yaml:"enabled"`

	// Secret is the expected value of the secret header. Required when
	// Enabled is true.
	Secret string `yaml:"secret"`

	// Header is the header carrying the secret (default: "X-Internal-Secret")
	Header string `yaml:"header"`
}

// NormalizerConfig configures reply normalization.
type NormalizerConfig struct {
	// ExtractJSON enables pulling the first balanced JSON object out of a
	// reply that is not itself valid JSON (code fences stripped first).
	// Disabled by default: a non-JSON reply is then a hard failure.
	ExtractJSON bool `yaml:"extract_json"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`

	// Format specifies log output format: json or text
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is provided.
// The API key is taken from GEMINI_API_KEY so the server runs with zero
// configuration beyond the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxBodyBytes:    10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   "gemini-1.5-flash",
			Timeout: 60 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          false,
				MaxRequests:      1,
				Interval:         30 * time.Second,
				Timeout:          10 * time.Second,
				FailureThreshold: 5,
			},
		},
		Auth: AuthConfig{
			Enabled: false,
			Header:  "X-Internal-Secret",
		},
		Normalizer: NormalizerConfig{
			ExtractJSON: false,
		},
		Processing: ProcessingConfig{
			RequestTemplates: map[string]string{
				"default": DefaultMealTemplate,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile loads configuration from a YAML file.
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// expandEnvVars resolves environment variable references in configuration
// strings. It supports standard ${VAR} substitution plus the ${VAR:-default}
// syntax for default values, and resolves nested references until the result
// is stable.
//
// Example transformations:
//   - "${GEMINI_API_KEY}" → the key from the environment
//   - "${PORT:-3000}" → "3000" (if PORT is unset)
func expandEnvVars(s string) string {
	result := os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			envKey := key[:i]
			defaultValue := key[i+2:]
			if val := os.Getenv(envKey); val != "" {
				return val
			}
			return defaultValue
		}
		return os.Getenv(key)
	})

	// Resolve nested references until no further substitution happens.
	prev := ""
	for prev != result {
		prev = result
		result = os.Expand(result, os.Getenv)
	}

	return result
}

// Load loads configuration from an io.Reader. Environment variables in the
// YAML are expanded before decoding, and the decoded document is layered over
// DefaultConfig so partial files work.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvVars(string(data))

	config := DefaultConfig()

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// validate checks struct tags (ranges, formats) across the whole config.
var validate = validator.New()

// Validate checks if the configuration is valid. A missing API key is the
// one condition that must stop the process before it accepts connections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Server validation
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout: %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("negative write timeout: %v", c.Server.WriteTimeout)
	}
	if c.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("negative max header bytes: %d", c.Server.MaxHeaderBytes)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive: %d", c.Server.MaxBodyBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("negative shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	// Backend validation
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("missing Gemini API key (set llm.api_key or GEMINI_API_KEY)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("empty model identifier")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive: %v", c.LLM.Timeout)
	}
	if c.LLM.CircuitBreaker.Enabled {
		if c.LLM.CircuitBreaker.FailureThreshold == 0 {
			return fmt.Errorf("circuit breaker enabled with zero failure threshold")
		}
		if c.LLM.CircuitBreaker.Timeout <= 0 {
			return fmt.Errorf("circuit breaker enabled with non-positive timeout: %v", c.LLM.CircuitBreaker.Timeout)
		}
	}

	// Auth validation
	if c.Auth.Enabled {
		if c.Auth.Secret == "" {
			return fmt.Errorf("auth enabled but no secret configured")
		}
		if c.Auth.Header == "" {
			return fmt.Errorf("auth enabled but no header configured")
		}
	}

	// Processing validation
	if _, ok := c.Processing.RequestTemplates["default"]; !ok {
		return fmt.Errorf("missing default request template")
	}

	// Logging validation
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}
