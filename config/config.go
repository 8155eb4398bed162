// Package config gathers the settings of the height command from, in increasing order of precedence, built-in
// defaults, a .height config file (YAML, TOML, or JSON), HEIGHT_* environment variables, and command line flags.
//
// The config file is searched for in $HEIGHT_CONFIG_PATH, the current directory, and the home directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/nicolagi/height"
	"github.com/nicolagi/height/batch"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys, as used in the config file. Nested keys map to environment variables with dots replaced by underscores,
// e.g., fetch.concurrency is HEIGHT_FETCH_CONCURRENCY.
const (
	KeyToken       = "token"
	KeyEndpoint    = "endpoint"
	KeyExportDir   = "export_dir"
	KeyWireLog     = "wire_log"
	KeyLogLevel    = "log_level"
	KeyConcurrency = "fetch.concurrency"
	KeyChunkDelay  = "fetch.chunk_delay"
	KeyMaxRetries  = "fetch.max_retries"
	KeyRetryDelay  = "fetch.retry_delay"
)

var (
	ErrMissingToken = errors.New("missing API token, set HEIGHT_API_TOKEN or use --token")
	ErrInvalid      = errors.New("invalid setting")
)

// Config holds the resolved settings.
type Config struct {
	Token     string
	Endpoint  string
	ExportDir string
	WireLog   string
	LogLevel  string

	Concurrency int
	ChunkDelay  time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// New returns a viper instance with the defaults, the environment bindings, and the config file search path set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyEndpoint, height.DefaultEndpoint)
	v.SetDefault(KeyExportDir, "exports")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyConcurrency, batch.DefaultConcurrency)
	v.SetDefault(KeyChunkDelay, batch.DefaultChunkDelay)
	v.SetDefault(KeyMaxRetries, batch.DefaultMaxRetries)
	v.SetDefault(KeyRetryDelay, batch.DefaultRetryDelay)

	v.SetConfigName(".height")
	v.SetEnvPrefix("HEIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyToken, "HEIGHT_API_TOKEN", "HEIGHT_TOKEN")

	if override := os.Getenv("HEIGHT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// AddFlags defines the flags that override the config file and environment, and binds them to v.
func AddFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("token", "", "Height API token")
	fs.String("endpoint", height.DefaultEndpoint, "Height API endpoint")
	fs.String("export-dir", "exports", "directory for export files")
	fs.String("wire-log", "", "append API requests and responses to this file")
	fs.String("log-level", "", "log level (panic, fatal, error, warning, info, debug, trace)")
	fs.Int("concurrency", batch.DefaultConcurrency, "activities fetched in parallel")
	for key, flag := range map[string]string{
		KeyToken:       "token",
		KeyEndpoint:    "endpoint",
		KeyExportDir:   "export-dir",
		KeyWireLog:     "wire-log",
		KeyLogLevel:    "log-level",
		KeyConcurrency: "concurrency",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("config: flag %q: %w", flag, err)
		}
	}
	return nil
}

// Load reads the config file, if there is one, and resolves the settings. A missing token is not an error here,
// see CheckToken.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	exportDir, err := homedir.Expand(v.GetString(KeyExportDir))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyExportDir, err)
	}
	wireLog, err := homedir.Expand(v.GetString(KeyWireLog))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyWireLog, err)
	}
	c := &Config{
		Token:       strings.TrimSpace(v.GetString(KeyToken)),
		Endpoint:    v.GetString(KeyEndpoint),
		ExportDir:   exportDir,
		WireLog:     wireLog,
		LogLevel:    v.GetString(KeyLogLevel),
		Concurrency: v.GetInt(KeyConcurrency),
		ChunkDelay:  v.GetDuration(KeyChunkDelay),
		MaxRetries:  v.GetInt(KeyMaxRetries),
		RetryDelay:  v.GetDuration(KeyRetryDelay),
	}
	switch {
	case c.Concurrency < 1:
		return nil, fmt.Errorf("config: %s must be positive: %w", KeyConcurrency, ErrInvalid)
	case c.MaxRetries < 0:
		return nil, fmt.Errorf("config: %s must not be negative: %w", KeyMaxRetries, ErrInvalid)
	case c.ChunkDelay < 0 || c.RetryDelay < 0:
		return nil, fmt.Errorf("config: delays must not be negative: %w", ErrInvalid)
	}
	return c, nil
}

// CheckToken returns ErrMissingToken if no token was configured. Only the commands that call the API need one.
func (c *Config) CheckToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// FetchOptions turns the fetch settings into batch fetcher options.
func (c *Config) FetchOptions() []batch.Option {
	return []batch.Option{
		batch.WithConcurrency(c.Concurrency),
		batch.WithChunkDelay(c.ChunkDelay),
		batch.WithMaxRetries(c.MaxRetries),
		batch.WithRetryDelay(c.RetryDelay),
	}
}
