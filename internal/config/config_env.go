package config

// applyEnv overlays process environment variables. Environment always wins
// over the config file.
func applyEnv(cfg *Config) {
	setStringFromEnv("PORT", func(v string) { cfg.Server.Port = v })
	setStringFromEnv("BASE_PATH", func(v string) { cfg.Server.BasePath = v })
	setToggleFromEnv("REQUEST_LOG", func(b bool) { cfg.Server.RequestLogEnabled = b })

	setStringFromEnv("GEMINI_ENDPOINT", func(v string) { cfg.Upstream.Endpoint = v })
	setStringFromEnv("GEMINI_MODEL", func(v string) { cfg.Upstream.Model = v })
	setStringFromEnv("PROXY_URL", func(v string) { cfg.Upstream.ProxyURL = v })

	setStringFromEnv("GOOGLE_API_KEY", func(v string) { cfg.Credentials.APIKey = v })
	setStringFromEnv("GOOGLE_SERVICE_KEY_PATH", func(v string) { cfg.Credentials.ServiceKeyPath = v })

	setToggleFromEnv("DEBUG", func(b bool) { cfg.Logging.Debug = b })
	setStringFromEnv("LOG_FILE", func(v string) { cfg.Logging.LogFile = v })
	setToggleFromEnv("METRICS_ENABLED", func(b bool) { cfg.Monitoring.MetricsEnabled = b })
}
