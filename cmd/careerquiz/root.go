package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/careerquiz/internal/app"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	envFiles   []string
	verbose    bool

	apiEndpoint   string
	restBase      string
	viewBase      string
	userAgent     string
	searchTimeout time.Duration
	pageTimeout   time.Duration
	attempts      int
	retryDelay    time.Duration
	cacheTTL      time.Duration
	maxCandidates int
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "careerquiz",
		Short: "Guess-the-footballer career lookups",
		Long: `careerquiz resolves a player name against Wikipedia, checks that the page
describes a footballer, extracts club and national-team career tables and
hides every form of the player's name in the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML or JSON config file")
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load (later files win)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	f.StringVar(&opts.apiEndpoint, "api", app.DefaultAPIEndpoint, "MediaWiki action API endpoint")
	f.StringVar(&opts.restBase, "rest", app.DefaultRESTBase, "REST page endpoint")
	f.StringVar(&opts.viewBase, "view", app.DefaultViewBase, "document view base URL")
	f.StringVar(&opts.userAgent, "user-agent", app.DefaultUserAgent, "client label sent on every request")
	f.DurationVar(&opts.searchTimeout, "search-timeout", app.DefaultSearchTimeout, "per-request timeout for search calls")
	f.DurationVar(&opts.pageTimeout, "page-timeout", app.DefaultPageTimeout, "per-request timeout for page fetches")
	f.IntVar(&opts.attempts, "attempts", app.DefaultMaxAttempts, "attempts per remote call")
	f.DurationVar(&opts.retryDelay, "retry-delay", app.DefaultRetryDelay, "pause between attempts")
	f.DurationVar(&opts.cacheTTL, "cache-ttl", app.DefaultCacheTTL, "lifetime of cached lookups")
	f.IntVar(&opts.maxCandidates, "max-candidates", app.DefaultMaxCandidates, "candidate pages fetched per lookup")

	root.AddCommand(
		newLookupCmd(opts),
		newSuggestCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig layers defaults, the config file, CAREERQUIZ_* env and
// explicitly set flags, in increasing precedence, and configures logging.
func loadConfig(flags *pflag.FlagSet, opts *options) (app.Config, error) {
	if err := app.LoadEnvFiles(opts.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg := app.DefaultConfig()
	if strings.TrimSpace(opts.configPath) != "" {
		fc, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config %s: %w", opts.configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	applyFlags(flags, opts, &cfg)

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg, nil
}

func applyFlags(flags *pflag.FlagSet, opts *options, cfg *app.Config) {
	set := flags.Changed
	if set("api") {
		cfg.APIEndpoint = opts.apiEndpoint
	}
	if set("rest") {
		cfg.RESTBase = opts.restBase
	}
	if set("view") {
		cfg.ViewBase = opts.viewBase
	}
	if set("user-agent") {
		cfg.UserAgent = opts.userAgent
	}
	if set("search-timeout") {
		cfg.SearchTimeout = opts.searchTimeout
	}
	if set("page-timeout") {
		cfg.PageTimeout = opts.pageTimeout
	}
	if set("attempts") {
		cfg.MaxAttempts = opts.attempts
	}
	if set("retry-delay") {
		cfg.RetryDelay = opts.retryDelay
	}
	if set("cache-ttl") {
		cfg.CacheTTL = opts.cacheTTL
	}
	if set("max-candidates") {
		cfg.MaxCandidates = opts.maxCandidates
	}
	if set("verbose") {
		cfg.Verbose = opts.verbose
	}
}

// newApp loads configuration and builds the pipeline for a subcommand.
func newApp(cmd *cobra.Command, opts *options) (*app.App, app.Config, error) {
	cfg, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return nil, cfg, err
	}
	a, err := app.New(cfg, log.Logger)
	if err != nil {
		return nil, cfg, fmt.Errorf("init app: %w", err)
	}
	return a, cfg, nil
}
