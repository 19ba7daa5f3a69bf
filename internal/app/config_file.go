package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Durations are
// Go duration strings such as "15s" or "1h".
type FileConfig struct {
	Wiki struct {
		API       string `yaml:"api" json:"api"`
		REST      string `yaml:"rest" json:"rest"`
		View      string `yaml:"view" json:"view"`
		UserAgent string `yaml:"userAgent" json:"userAgent"`
	} `yaml:"wiki" json:"wiki"`

	Timeouts struct {
		Search string `yaml:"search" json:"search"`
		Page   string `yaml:"page" json:"page"`
	} `yaml:"timeouts" json:"timeouts"`

	Retry struct {
		Attempts int    `yaml:"attempts" json:"attempts"`
		Delay    string `yaml:"delay" json:"delay"`
	} `yaml:"retry" json:"retry"`

	Cache struct {
		TTL string `yaml:"ttl" json:"ttl"`
	} `yaml:"cache" json:"cache"`

	Limits struct {
		Search      int `yaml:"search" json:"search"`
		Candidates  int `yaml:"candidates" json:"candidates"`
		Suggestions int `yaml:"suggestions" json:"suggestions"`
	} `yaml:"limits" json:"limits"`

	Listen  string `yaml:"listen" json:"listen"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	for name, s := range map[string]string{
		"timeouts.search": fc.Timeouts.Search,
		"timeouts.page":   fc.Timeouts.Page,
		"retry.delay":     fc.Retry.Delay,
		"cache.ttl":       fc.Cache.TTL,
	} {
		if _, err := parseDuration(s); err != nil {
			return fc, fmt.Errorf("parse config: %s: %w", name, err)
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. Call it on a
// Config holding defaults, before env overrides and explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString(&cfg.APIEndpoint, fc.Wiki.API)
	setString(&cfg.RESTBase, fc.Wiki.REST)
	setString(&cfg.ViewBase, fc.Wiki.View)
	setString(&cfg.UserAgent, fc.Wiki.UserAgent)
	setString(&cfg.ListenAddr, fc.Listen)

	setDuration(&cfg.SearchTimeout, fc.Timeouts.Search)
	setDuration(&cfg.PageTimeout, fc.Timeouts.Page)
	setDuration(&cfg.RetryDelay, fc.Retry.Delay)
	setDuration(&cfg.CacheTTL, fc.Cache.TTL)

	setInt(&cfg.MaxAttempts, fc.Retry.Attempts)
	setInt(&cfg.SearchLimit, fc.Limits.Search)
	setInt(&cfg.MaxCandidates, fc.Limits.Candidates)
	setInt(&cfg.SuggestLimit, fc.Limits.Suggestions)

	if fc.Verbose {
		cfg.Verbose = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, s string) {
	if d, err := parseDuration(s); err == nil && s != "" {
		*dst = d
	}
}

// parseDuration accepts the empty string as "unset".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
