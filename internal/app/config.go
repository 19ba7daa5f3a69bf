package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults for Config. The CLI uses them as flag defaults.
const (
	DefaultAPIEndpoint   = "https://en.wikipedia.org/w/api.php"
	DefaultRESTBase      = "https://en.wikipedia.org/api/rest_v1/page"
	DefaultViewBase      = "https://en.wikipedia.org/wiki/"
	DefaultUserAgent     = "FootballCareerQuiz/1.0 (+https://github.com/hyperifyio/careerquiz)"
	DefaultSearchTimeout = 10 * time.Second
	DefaultPageTimeout   = 15 * time.Second
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = time.Second
	DefaultCacheTTL      = time.Hour
	DefaultSearchLimit   = 10
	DefaultMaxCandidates = 5
	DefaultSuggestLimit  = 5
	DefaultListenAddr    = ":8080"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Wiki endpoints
	APIEndpoint string
	RESTBase    string
	ViewBase    string
	UserAgent   string

	// Transport
	SearchTimeout time.Duration
	PageTimeout   time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration

	// Caching and limits
	CacheTTL      time.Duration
	SearchLimit   int
	MaxCandidates int
	SuggestLimit  int

	// Behavior
	ListenAddr string
	Verbose    bool
}

// DefaultConfig returns a Config pointing at English Wikipedia.
func DefaultConfig() Config {
	return Config{
		APIEndpoint:   DefaultAPIEndpoint,
		RESTBase:      DefaultRESTBase,
		ViewBase:      DefaultViewBase,
		UserAgent:     DefaultUserAgent,
		SearchTimeout: DefaultSearchTimeout,
		PageTimeout:   DefaultPageTimeout,
		MaxAttempts:   DefaultMaxAttempts,
		RetryDelay:    DefaultRetryDelay,
		CacheTTL:      DefaultCacheTTL,
		SearchLimit:   DefaultSearchLimit,
		MaxCandidates: DefaultMaxCandidates,
		SuggestLimit:  DefaultSuggestLimit,
		ListenAddr:    DefaultListenAddr,
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	for name, v := range map[string]string{
		"wiki.api":  cfg.APIEndpoint,
		"wiki.rest": cfg.RESTBase,
		"wiki.view": cfg.ViewBase,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("config: %s is required", name)
		}
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: %s must be an http(s) URL, got %q", name, v)
		}
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return errors.New("config: wiki.userAgent is required")
	}
	if cfg.SearchTimeout < 0 || cfg.PageTimeout < 0 || cfg.RetryDelay < 0 || cfg.CacheTTL < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.MaxAttempts < 0 || cfg.SearchLimit < 0 || cfg.MaxCandidates < 0 || cfg.SuggestLimit < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
