package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	// inline equivalent of cmp.Or(Version, "unknown"); cmp.Or needs Go 1.22+
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Storage configuration
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./feedmill.db" description:"SQLite database path"`
	CacheDir string `long:"cache-dir" env:"CACHE_DIR" default:"./cache" description:"Directory for per-source parse cache files"`

	// Application configuration
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./feeds.yml" description:"YAML file listing feed sources"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Normalization defaults
	CacheEnabled     bool   `long:"cache-enabled" env:"CACHE_ENABLED" description:"Cache parsed results per source"`
	CacheTTLMinutes  int    `long:"cache-ttl" env:"CACHE_TTL_MINUTES" default:"350" description:"Parse cache TTL in minutes"`
	SummaryMaxLength int    `long:"summary-max-length" env:"SUMMARY_MAX_LENGTH" default:"140" description:"Maximum summary length in characters"`
	ImageSource      string `long:"image-source" env:"IMAGE_SOURCE" default:"serial" choice:"enclosure" choice:"media" choice:"serial" description:"Preferred item image source"`
	DateFormat       string `long:"date-format" env:"DATE_FORMAT" description:"Go time layout for formatted dates (default: epoch timestamps)"`
	ExtractContent   bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Fetch item links and extract full article content"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Feedmill/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		CacheDir:         raw.CacheDir,
		SourcesFile:      raw.SourcesFile,
		Port:             raw.Port,
		APIAccessKey:     raw.APIAccessKey,
		CacheEnabled:     raw.CacheEnabled,
		CacheTTLMinutes:  raw.CacheTTLMinutes,
		SummaryMaxLength: raw.SummaryMaxLength,
		ImageSource:      raw.ImageSource,
		DateFormat:       raw.DateFormat,
		ExtractContent:   raw.ExtractContent,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
		Args:             args,
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
