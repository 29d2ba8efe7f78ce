package commands

import (
	"os"

	"resultrelay/lib/configutil"

	"dario.cat/mergo"
)

type Config struct {
	Port                  int      `json:"port"`
	AllowedOrigins        []string `json:"allowed_origins"`
	RateLimitMax          int      `json:"rate_limit_max"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds"`
	UpstreamUrl           string   `json:"upstream_url"`
	UserAgent             string   `json:"user_agent"`
	InsecureTls           bool     `json:"insecure_tls"`
	CloudflareBypass      bool     `json:"cloudflare_bypass"`
	LogLevel              string   `json:"log_level"`
}

const defaultUpstreamUrl = "https://results.see.gov.np/results/gradesheet"

func defaultConfig() Config {
	return Config{
		Port:                  3000,
		RateLimitMax:          60,
		RequestTimeoutSeconds: 10,
		UpstreamUrl:           defaultUpstreamUrl,
		LogLevel:              "info",
	}
}

// loadConfig layers, lowest priority first: built-in defaults,
// config.json5 (+ .local override), environment variables.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	fileCfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		err = mergo.Merge(&cfg, fileCfg, mergo.WithOverride)
		if err != nil {
			return cfg, err
		}
	}

	configutil.EnvInt("PORT", &cfg.Port)
	configutil.EnvStrings("ALLOWED_ORIGINS", &cfg.AllowedOrigins)
	configutil.EnvInt("RATE_LIMIT_MAX", &cfg.RateLimitMax)
	configutil.EnvInt("REQUEST_TIMEOUT_SECONDS", &cfg.RequestTimeoutSeconds)
	configutil.EnvString("UPSTREAM_URL", &cfg.UpstreamUrl)
	configutil.EnvString("USER_AGENT", &cfg.UserAgent)
	configutil.EnvBool("INSECURE_TLS", &cfg.InsecureTls)
	configutil.EnvBool("CLOUDFLARE_BYPASS", &cfg.CloudflareBypass)
	configutil.EnvString("LOG_LEVEL", &cfg.LogLevel)

	return cfg, nil
}
