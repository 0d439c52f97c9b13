// Package config provides configuration management for the LegalEase server.
// It covers the HTTP server, the generative model client, document handling
// limits, prompt templates, circuit breaking and logging.
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	LLM            LLMConfig            `yaml:"llm"`
	Documents      DocumentsConfig      `yaml:"documents"`
	Processing     ProcessingConfig     `yaml:"processing"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Logging        LoggingConfig        `yaml:"logging"`
}

// ServerConfig holds server-specific configuration for the HTTP server.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 5001)
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including uploaded documents (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout must cover a full model round trip (default: 90s)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout specifies how long to wait for in-flight requests
	// before forcing termination (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AllowedOrigins lists CORS origins. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LLMConfig holds configuration for the external generative model.
type LLMConfig struct {
	// Provider selects the client: "gemini" uses the Google SDK directly,
	// anything else (openai, anthropic, groq, ollama...) goes through gollm.
	Provider string `yaml:"provider"`

	// Model is the provider's model name (e.g. "gemini-1.5-flash")
	Model string `yaml:"model"`

	// APIKey is the secret for the provider. Prefer ${GEMINI_API_KEY}
	// expansion or leave empty to read <PROVIDER>_API_KEY from the environment.
	APIKey string `yaml:"api_key"`

	// Timeout bounds a single model call (default: 60s)
	Timeout time.Duration `yaml:"timeout"`

	// DedupeInflight collapses concurrent calls carrying an identical prompt
	// into one upstream request.
	DedupeInflight bool `yaml:"dedupe_inflight"`
}

// DocumentsConfig bounds uploaded documents and the text embedded in prompts.
type DocumentsConfig struct {
	// MaxUploadBytes caps the multipart body of /api/simplify (default: 16MB)
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// AnalysisCharBudget is the number of characters of document text sent
	// to simplify and predict prompts (default: 8000)
	AnalysisCharBudget int `yaml:"analysis_char_budget"`

	// ChatCharBudget is the number of characters of document context sent
	// with chat questions (default: 7000)
	ChatCharBudget int `yaml:"chat_char_budget"`
}

// CircuitBreakerConfig configures the breaker in front of the model client.
type CircuitBreakerConfig struct {
	// MaxRequests is the number of requests allowed through while half-open
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval is the cyclic period of the closed state after which
	// failure counts are cleared. Zero never clears.
	Interval time.Duration `yaml:"interval"`

	// Timeout is the period of the open state until it becomes half-open
	Timeout time.Duration `yaml:"timeout"`

	// FailureThreshold is the number of consecutive failures that trips
	// the circuit
	FailureThreshold uint32 `yaml:"failure_threshold"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`

	// Format specifies log output format: json or text
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5001,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
			Timeout:  60 * time.Second,
		},
		Documents: DocumentsConfig{
			MaxUploadBytes:     16 << 20,
			AnalysisCharBudget: 8000,
			ChatCharBudget:     7000,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile loads configuration from a YAML file. A missing file yields the
// defaults so the server can run from the environment alone.
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnv()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("validate config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// envRef matches ${NAME} and ${NAME:-default}. A bare $ is left alone so
// template variables and amounts such as $500 survive.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)?(:-[^}]*)?\}`)

// expandEnvVars resolves ${VAR} and ${VAR:-default} references.
func expandEnvVars(s string) (string, error) {
	var bad string
	result := envRef.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		name, def := m[1], m[2]
		if name == "" {
			if bad == "" {
				bad = ref
			}
			return ""
		}
		if val := os.Getenv(name); val != "" || def == "" {
			return val
		}
		return strings.TrimPrefix(def, ":-")
	})
	if bad != "" {
		return "", fmt.Errorf("invalid variable reference: %s", bad)
	}
	return result, nil
}

// Load loads configuration from an io.Reader
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expandedData, err := expandEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("expand environment variables: %w", err)
	}

	// Start with defaults
	config := DefaultConfig()

	// Decode YAML on top of defaults
	dec := yaml.NewDecoder(strings.NewReader(expandedData))
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// applyEnv fills the API key from the conventional environment variable
// when the file leaves it empty.
func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(APIKeyEnv(c.LLM.Provider))
	}
}

// APIKeyEnv returns the environment variable holding a provider's key.
func APIKeyEnv(provider string) string {
	return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout: %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("negative write timeout: %v", c.Server.WriteTimeout)
	}
	if c.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("negative max header bytes: %d", c.Server.MaxHeaderBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("negative shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	if c.LLM.Provider == "" {
		return fmt.Errorf("empty LLM provider")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("empty LLM model")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("negative LLM timeout: %v", c.LLM.Timeout)
	}

	if c.Documents.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive: %d", c.Documents.MaxUploadBytes)
	}
	if c.Documents.AnalysisCharBudget <= 0 {
		return fmt.Errorf("analysis char budget must be positive: %d", c.Documents.AnalysisCharBudget)
	}
	if c.Documents.ChatCharBudget <= 0 {
		return fmt.Errorf("chat char budget must be positive: %d", c.Documents.ChatCharBudget)
	}

	if c.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("circuit breaker failure threshold must be positive")
	}
	if c.CircuitBreaker.Interval < 0 || c.CircuitBreaker.Timeout < 0 {
		return fmt.Errorf("negative circuit breaker durations")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}
