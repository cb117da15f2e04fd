package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Engine Configuration
	v.SetDefault("engine.topKeywords", 25)
	v.SetDefault("engine.minJobDescriptionLength", 50)
	v.SetDefault("engine.neutralSkillsScore", 100) // absence of skill requirements is not a deficiency
	v.SetDefault("engine.maxSuggestions", 8)
	v.SetDefault("engine.minResumeWords", 150)
	v.SetDefault("engine.maxResumeWords", 1200)
	v.SetDefault("engine.singularize", true)
	v.SetDefault("engine.weights.keywords", 0.6)
	v.SetDefault("engine.weights.skills", 0.2)
	v.SetDefault("engine.weights.format", 0.2)
	v.SetDefault("engine.stopwords", []string{}) // empty selects the built-in list
	v.SetDefault("engine.taxonomyFile", "")      // empty selects the built-in taxonomy
	v.SetDefault("engine.taxonomy.watchFile", false)
	v.SetDefault("engine.taxonomy.debounceDelay", time.Second)

	// Store Configuration
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.maxConns", 10)
	v.SetDefault("store.minConns", 2)
	v.SetDefault("store.connectTimeout", 10*time.Second)
	v.SetDefault("store.queryTimeout", 5*time.Second)
	v.SetDefault("store.listLimit", 50)

	// Store circuit breaker defaults
	v.SetDefault("store.circuitBreaker.enabled", true)
	v.SetDefault("store.circuitBreaker.maxRequests", 3)
	v.SetDefault("store.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("store.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("store.circuitBreaker.minRequests", 5)
	v.SetDefault("store.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")           // TLS 1.2 minimum
	v.SetDefault("server.tls.cipherSuites", []string{})    // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumatch")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.analyses.enabled", true)
	v.SetDefault("observability.customMetrics.analyses.trackDuration", true)
	v.SetDefault("observability.customMetrics.analyses.trackScores", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackStoreHealth", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.storePingTimeout", 5*time.Second)
}
