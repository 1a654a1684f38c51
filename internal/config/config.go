package config

// Config is the runtime configuration, grouped by concern.
type Config struct {
	Server      ServerConfig
	Upstream    UpstreamConfig
	Credentials CredentialsConfig
	Logging     LoggingConfig
	Monitoring  MonitoringConfig
}

// ServerConfig controls the standalone HTTP host.
type ServerConfig struct {
	Port              string
	BasePath          string
	RequestLogEnabled bool
}

// UpstreamConfig describes the generation endpoint.
type UpstreamConfig struct {
	Endpoint string
	Model    string
	ProxyURL string
}

// CredentialsConfig holds both credential sources. When both are set the
// API key wins.
type CredentialsConfig struct {
	APIKey         string
	ServiceKeyPath string
}

// LoggingConfig controls logrus output.
type LoggingConfig struct {
	Debug   bool
	LogFile string
}

// MonitoringConfig toggles the Prometheus endpoint.
type MonitoringConfig struct {
	MetricsEnabled bool
}

const (
	DefaultPort     = "3001"
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash"
)

// Default returns the configuration used when neither a file nor the
// environment provides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              DefaultPort,
			RequestLogEnabled: true,
		},
		Upstream: UpstreamConfig{
			Endpoint: DefaultEndpoint,
			Model:    DefaultModel,
		},
		Monitoring: MonitoringConfig{MetricsEnabled: true},
	}
}
