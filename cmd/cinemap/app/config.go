package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/cinemap/internal/catalog"
	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/server"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Catalog
	TMDBToken        string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	AuthScheme       string
	Language         string
	RateLimit        float64
	BreakerEnabled   bool

	// Favorites storage
	DataDir string

	// Page layout and timing
	Debounce  time.Duration
	CardWidth int
	CardGap   int

	// HTTP server
	HTTPHost string
	HTTPPort int

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CINEMAP_ prefixed, plus TMDB_API_TOKEN,
//    TMDB_API_KEY, HTTP_HOST and HTTP_PORT)
// 3. .env files
// 4. Config file (~/.cinemap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig reads configFile when set; it must then exist.
func loadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("CINEMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnv(v)
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config_file")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".cinemap")
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		TMDBToken:        firstNonEmpty(v.GetString("tmdb_api_token"), v.GetString("tmdb_api_key")),
		TMDBBaseURL:      v.GetString("tmdb_base_url"),
		TMDBImageBaseURL: v.GetString("tmdb_image_base_url"),
		AuthScheme:       v.GetString("auth_scheme"),
		Language:         v.GetString("language"),
		RateLimit:        v.GetFloat64("rate_limit"),
		BreakerEnabled:   v.GetBool("breaker_enabled"),

		DataDir: v.GetString("data_dir"),

		Debounce:  v.GetDuration("debounce"),
		CardWidth: v.GetInt("card_width"),
		CardGap:   v.GetInt("card_gap"),

		HTTPHost: v.GetString("http_host"),
		HTTPPort: v.GetInt("http_port"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// A v3 key alone means query authentication.
	if config.AuthScheme == "" {
		config.AuthScheme = catalog.DefaultConfig().AuthScheme
		if v.GetString("tmdb_api_token") == "" && config.TMDBToken != "" {
			config.AuthScheme = "query"
		}
	}

	return config, nil
}

// bindEnv maps the well-known unprefixed variables onto their keys.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("tmdb_api_token", "CINEMAP_TMDB_API_TOKEN", "TMDB_API_TOKEN")
	_ = v.BindEnv("tmdb_api_key", "CINEMAP_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("http_host", "CINEMAP_HTTP_HOST", "HTTP_HOST")
	_ = v.BindEnv("http_port", "CINEMAP_HTTP_PORT", "HTTP_PORT")
}

func setDefaults(v *viper.Viper) {
	def := catalog.DefaultConfig()
	srv := server.DefaultConfig()

	v.SetDefault("tmdb_base_url", def.BaseURL)
	v.SetDefault("tmdb_image_base_url", def.ImageBaseURL)
	v.SetDefault("language", def.Language)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("breaker_enabled", def.BreakerEnabled)
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("debounce", constants.SearchDebounce)
	v.SetDefault("card_width", constants.CardWidth)
	v.SetDefault("card_gap", constants.CardGap)
	v.SetDefault("http_host", srv.Host)
	v.SetDefault("http_port", srv.Port)
}

// UpdateFromFlags applies parsed persistent flags, which take precedence
// over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// CatalogConfig returns the catalog client settings.
func (c *Config) CatalogConfig() catalog.Config {
	cfg := catalog.DefaultConfig()
	cfg.Token = c.TMDBToken
	if c.TMDBBaseURL != "" {
		cfg.BaseURL = c.TMDBBaseURL
	}
	if c.TMDBImageBaseURL != "" {
		cfg.ImageBaseURL = c.TMDBImageBaseURL
	}
	if c.AuthScheme != "" {
		cfg.AuthScheme = c.AuthScheme
	}
	if c.Language != "" {
		cfg.Language = c.Language
	}
	cfg.RateLimit = c.RateLimit
	cfg.BreakerEnabled = c.BreakerEnabled
	return cfg
}

// PageConfig returns the page layout and timing.
func (c *Config) PageConfig() page.Config {
	cfg := page.DefaultConfig()
	if c.Language != "" {
		cfg.Language = c.Language
	}
	if c.Debounce > 0 {
		cfg.Debounce = c.Debounce
	}
	if c.CardWidth > 0 {
		cfg.CardWidth = c.CardWidth
	}
	if c.CardGap >= 0 {
		cfg.CardGap = c.CardGap
	}
	return cfg
}

func loadEnvFiles() {
	// .env.local overrides .env; godotenv never overwrites set variables,
	// so the more specific file loads first.
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DefaultDataDir
	}
	return filepath.Join(home, constants.DefaultDataDir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
