package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"resumatch/internal/engine"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Precedence order:
// 1. Config file values
// 2. Environment variables (RESUMATCH_SERVER_PORT, etc.)
// 3. Default values
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	App           AppConfig           `mapstructure:"app"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EngineConfig holds the analysis engine knobs
type EngineConfig struct {
	TopKeywords             int            `mapstructure:"topKeywords"`             // top-N job-description keywords
	MinJobDescriptionLength int            `mapstructure:"minJobDescriptionLength"` // minimum job-description length in characters
	NeutralSkillsScore      int            `mapstructure:"neutralSkillsScore"`      // skills score when the job mentions no taxonomy skills
	MaxSuggestions          int            `mapstructure:"maxSuggestions"`          // suggestion cap
	MinResumeWords          int            `mapstructure:"minResumeWords"`          // acceptable word-count lower bound
	MaxResumeWords          int            `mapstructure:"maxResumeWords"`          // acceptable word-count upper bound
	Singularize             bool           `mapstructure:"singularize"`             // collapse plural tokens during normalization
	Weights                 WeightsConfig  `mapstructure:"weights"`
	Stopwords               []string       `mapstructure:"stopwords"`    // custom stopword list (empty selects built-in)
	TaxonomyFile            string         `mapstructure:"taxonomyFile"` // YAML taxonomy override (empty selects built-in)
	Taxonomy                TaxonomyConfig `mapstructure:"taxonomy"`
}

// WeightsConfig holds the component score weights
type WeightsConfig struct {
	Keywords float64 `mapstructure:"keywords"`
	Skills   float64 `mapstructure:"skills"`
	Format   float64 `mapstructure:"format"`
}

// TaxonomyConfig holds taxonomy file watching configuration
type TaxonomyConfig struct {
	WatchFile     bool          `mapstructure:"watchFile"`     // reload the taxonomy file when it changes
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // debounce delay for file change events
}

// StoreConfig holds analysis history persistence configuration
type StoreConfig struct {
	Enabled        bool                 `mapstructure:"enabled"`
	DSN            string               `mapstructure:"dsn"`            // PostgreSQL connection string
	MaxConns       int32                `mapstructure:"maxConns"`       // connection pool upper bound
	MinConns       int32                `mapstructure:"minConns"`       // connection pool lower bound
	ConnectTimeout time.Duration        `mapstructure:"connectTimeout"` // initial connect/ping timeout
	QueryTimeout   time.Duration        `mapstructure:"queryTimeout"`   // per-query timeout
	ListLimit      int                  `mapstructure:"listLimit"`      // default limit for listing analyses
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)
	CAFile   string `mapstructure:"caFile"`   // CA certificate file for client cert verification (PEM, required for mutual mode)

	MinVersion       string   `mapstructure:"minVersion"`       // Minimum TLS version: "1.2", "1.3"
	CipherSuites     []string `mapstructure:"cipherSuites"`     // Allowed cipher suites (optional)
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"` // Client auth policy for mutual mode: "require", "request", "verify"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	Analyses       AnalysesMetricsConfig       `mapstructure:"analyses"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AnalysesMetricsConfig holds analysis operation metrics configuration
type AnalysesMetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	TrackDuration bool `mapstructure:"trackDuration"`
	TrackScores   bool `mapstructure:"trackScores"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	TrackRateLimits  bool `mapstructure:"trackRateLimits"`
	TrackStoreHealth bool `mapstructure:"trackStoreHealth"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	StorePingTimeout time.Duration `mapstructure:"storePingTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("RESUMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMATCH'")

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumatch/")
	v.AddConfigPath("$HOME/.resumatch")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/resumatch/, $HOME/.resumatch, .")

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply fallback logic
	config.applyFallbacks()

	// Log configuration sources summary
	config.logConfigurationSources(configFileUsed)

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.validateEngineConfig(); err != nil {
		return fmt.Errorf("engine configuration error: %w", err)
	}

	if c.Store.Enabled && c.Store.DSN == "" {
		return fmt.Errorf("store DSN is required when the store is enabled (set RESUMATCH_STORE_DSN)")
	}

	// Validate TLS configuration
	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// validateEngineConfig checks the analysis engine knobs
func (c *Config) validateEngineConfig() error {
	e := c.Engine

	if e.TopKeywords <= 0 {
		return fmt.Errorf("topKeywords must be positive")
	}
	if e.MinJobDescriptionLength <= 0 {
		return fmt.Errorf("minJobDescriptionLength must be positive")
	}
	if e.NeutralSkillsScore < 0 || e.NeutralSkillsScore > 100 {
		return fmt.Errorf("neutralSkillsScore must be in [0,100]")
	}
	if e.MaxSuggestions <= 0 {
		return fmt.Errorf("maxSuggestions must be positive")
	}
	if e.MinResumeWords <= 0 || e.MaxResumeWords <= e.MinResumeWords {
		return fmt.Errorf("resume word-count bounds must satisfy 0 < min < max")
	}
	if !c.EngineWeights().Valid() {
		return fmt.Errorf("score weights must be non-negative and sum to 1")
	}
	return nil
}

// EngineWeights converts the configured weights to engine weights
func (c *Config) EngineWeights() engine.Weights {
	return engine.Weights{
		Keywords: c.Engine.Weights.Keywords,
		Skills:   c.Engine.Weights.Skills,
		Format:   c.Engine.Weights.Format,
	}
}

// EngineSettings converts the configuration into an engine.Config
func (c *Config) EngineSettings() engine.Config {
	return engine.Config{
		TopKeywords:       c.Engine.TopKeywords,
		MinJobDescLength:  c.Engine.MinJobDescriptionLength,
		NeutralSkillScore: c.Engine.NeutralSkillsScore,
		MaxSuggestions:    c.Engine.MaxSuggestions,
		MinResumeWords:    c.Engine.MinResumeWords,
		MaxResumeWords:    c.Engine.MaxResumeWords,
		Singularize:       c.Engine.Singularize,
		Weights:           c.EngineWeights(),
		Stopwords:         c.Engine.Stopwords,
	}
}
