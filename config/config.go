package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq     = "groq"
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"

	SearchExa        = "exa"
	SearchDuckDuckGo = "duckduckgo"
)

type Config struct {
	Host        string   `json:"host" yaml:"host"`
	Port        int      `json:"port" yaml:"port"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	LLMProvider string `json:"llm_provider" yaml:"llm_provider"`
	LLMModel    string `json:"llm_model" yaml:"llm_model"`
	BackendURL  string `json:"backend_url" yaml:"backend_url"`
	MaxTokens   int    `json:"max_tokens" yaml:"max_tokens"`
	MaxStep     int    `json:"max_step" yaml:"max_step"`

	// AI Model API Keys
	GroqAPIKey     string `json:"-" yaml:"groq_api_key"`
	DeepSeekAPIKey string `json:"-" yaml:"deepseek_api_key"`
	OpenAIAPIKey   string `json:"-" yaml:"openai_api_key"`

	SearchProvider string `json:"search_provider" yaml:"search_provider"`
	ExaAPIKey      string `json:"-" yaml:"exa_api_key"`
	ExaBaseURL     string `json:"exa_base_url" yaml:"exa_base_url"`

	// Longport API Configuration
	LongportAppKey      string   `json:"-" yaml:"longport_app_key"`
	LongportAppSecret   string   `json:"-" yaml:"longport_app_secret"`
	LongportAccessToken string   `json:"-" yaml:"longport_access_token"`
	LongportMarkets     []string `json:"longport_markets" yaml:"longport_markets"`

	HTTPTimeout time.Duration `json:"http_timeout" yaml:"http_timeout"`
	LogLevel    string        `json:"log_level" yaml:"log_level"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled" yaml:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port" yaml:"eino_debug_port"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        8000,
		CORSOrigins: []string{"*"},

		LLMProvider: ProviderGroq,
		LLMModel:    "llama3-70b-8192",
		BackendURL:  "",
		MaxTokens:   4096,
		MaxStep:     12,

		SearchProvider: SearchExa,
		ExaBaseURL:     "https://api.exa.ai",

		LongportMarkets: []string{"HKEX", "HK", "SSE", "SZSE", "SGX"},

		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}
}

// Load builds the process configuration: defaults, then .env, then the
// optional YAML file, then environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Load environment variables from .env file
	_ = godotenv.Load()

	path := os.Getenv("BUTTERFLY_CONFIG")
	if path == "" {
		path = "butterfly.yaml"
	}
	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}

	cfg.loadFromEnv()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("HOST"); val != "" {
		c.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Port = v
		}
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		c.CORSOrigins = splitList(val)
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("AGENT_MAX_STEP"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxStep = v
		}
	}

	if val := os.Getenv("GROQ_API_KEY"); val != "" {
		c.GroqAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}

	if val := os.Getenv("SEARCH_PROVIDER"); val != "" {
		c.SearchProvider = strings.ToLower(val)
	}
	if val := os.Getenv("EXA_API_KEY"); val != "" {
		c.ExaAPIKey = val
	}
	if val := os.Getenv("EXA_BASE_URL"); val != "" {
		c.ExaBaseURL = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
	if val := os.Getenv("LONGPORT_MARKETS"); val != "" {
		c.LongportMarkets = splitList(val)
	}

	if val := os.Getenv("HTTP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.HTTPTimeout = d
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}
}

// Validate reports structural problems only. Missing credentials are
// diagnostic conditions, see LLMConfigured and SearchConfigured.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	switch c.LLMProvider {
	case ProviderGroq, ProviderDeepSeek, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}
	switch c.SearchProvider {
	case SearchExa, SearchDuckDuckGo:
	default:
		return fmt.Errorf("unknown search_provider %q", c.SearchProvider)
	}
	if c.MaxStep <= 0 {
		return fmt.Errorf("max_step must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	return nil
}

// LLMAPIKey returns the credential for the selected LLM provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GroqAPIKey
	}
}

func (c *Config) LLMConfigured() bool {
	return c.LLMAPIKey() != ""
}

// SearchConfigured is false only for the keyed neural backend without a key.
func (c *Config) SearchConfigured() bool {
	if c.SearchProvider == SearchDuckDuckGo {
		return true
	}
	return c.ExaAPIKey != ""
}

func (c *Config) LongportConfigured() bool {
	return c.LongportAppKey != "" && c.LongportAppSecret != "" && c.LongportAccessToken != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
