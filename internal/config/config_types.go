package config

// FileConfig represents the configuration loaded from file.
// Pointer fields distinguish "unset" from an explicit false.
type FileConfig struct {
	// Server settings
	Port       int    `yaml:"port" json:"port"`
	BasePath   string `yaml:"base_path" json:"base_path"`
	RequestLog *bool  `yaml:"request_log" json:"request_log"`

	// Upstream settings
	GeminiEndpoint string `yaml:"gemini_endpoint" json:"gemini_endpoint"`
	GeminiModel    string `yaml:"gemini_model" json:"gemini_model"`
	ProxyURL       string `yaml:"proxy_url" json:"proxy_url"`

	// Credentials
	GoogleAPIKey         string `yaml:"google_api_key" json:"google_api_key"`
	GoogleServiceKeyPath string `yaml:"google_service_key_path" json:"google_service_key_path"`

	// Logging / monitoring
	Debug          bool   `yaml:"debug" json:"debug"`
	LogFile        string `yaml:"log_file" json:"log_file"`
	MetricsEnabled *bool  `yaml:"metrics_enabled" json:"metrics_enabled"`
}

func (fc *FileConfig) applyTo(cfg *Config) {
	if fc == nil || cfg == nil {
		return
	}
	if fc.Port > 0 {
		cfg.Server.Port = itoa(fc.Port)
	}
	if fc.BasePath != "" {
		cfg.Server.BasePath = fc.BasePath
	}
	if fc.RequestLog != nil {
		cfg.Server.RequestLogEnabled = *fc.RequestLog
	}
	if fc.GeminiEndpoint != "" {
		cfg.Upstream.Endpoint = fc.GeminiEndpoint
	}
	if fc.GeminiModel != "" {
		cfg.Upstream.Model = fc.GeminiModel
	}
	if fc.ProxyURL != "" {
		cfg.Upstream.ProxyURL = fc.ProxyURL
	}
	if fc.GoogleAPIKey != "" {
		cfg.Credentials.APIKey = fc.GoogleAPIKey
	}
	if fc.GoogleServiceKeyPath != "" {
		cfg.Credentials.ServiceKeyPath = fc.GoogleServiceKeyPath
	}
	if fc.Debug {
		cfg.Logging.Debug = true
	}
	if fc.LogFile != "" {
		cfg.Logging.LogFile = fc.LogFile
	}
	if fc.MetricsEnabled != nil {
		cfg.Monitoring.MetricsEnabled = *fc.MetricsEnabled
	}
}
