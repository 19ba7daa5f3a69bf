package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix namespaces every environment variable the application reads.
const EnvPrefix = "CAREERQUIZ_"

// ApplyEnvOverrides overrides cfg fields with CAREERQUIZ_* environment
// variables that are set. Env takes precedence over a config file while
// explicit flags remain highest. Unparseable values are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	str := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	str(&cfg.APIEndpoint, "API_ENDPOINT")
	str(&cfg.RESTBase, "REST_BASE")
	str(&cfg.ViewBase, "VIEW_BASE")
	str(&cfg.UserAgent, "USER_AGENT")
	str(&cfg.ListenAddr, "LISTEN_ADDR")

	num := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	num(&cfg.MaxAttempts, "MAX_ATTEMPTS")
	num(&cfg.SearchLimit, "SEARCH_LIMIT")
	num(&cfg.MaxCandidates, "MAX_CANDIDATES")
	num(&cfg.SuggestLimit, "SUGGEST_LIMIT")

	dur := func(dst *time.Duration, key string) {
		setDuration(dst, strings.TrimSpace(os.Getenv(EnvPrefix+key)))
	}
	dur(&cfg.SearchTimeout, "SEARCH_TIMEOUT")
	dur(&cfg.PageTimeout, "PAGE_TIMEOUT")
	dur(&cfg.RetryDelay, "RETRY_DELAY")
	dur(&cfg.CacheTTL, "CACHE_TTL")

	// Booleans override when env present and truthy/falsey
	if s := strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + "VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
}
