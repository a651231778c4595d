package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/groupcv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the resolved settings of one command invocation.
// Flags win over GROUPCV_* environment variables, which win over the
// config file.
type Config struct {
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	MetricsFile string `mapstructure:"metrics-file"`

	Input     string `mapstructure:"input"`
	Delimiter string `mapstructure:"delimiter"`
	Column    string `mapstructure:"column"`
	Target    string `mapstructure:"target"`
	NGroups   int    `mapstructure:"n-groups"`
	Robust    bool   `mapstructure:"robust"`
	Shuffle   bool   `mapstructure:"shuffle"`
	Seed      int64  `mapstructure:"seed"`
	SeedSet   bool   `mapstructure:"-"`
	Mode      string `mapstructure:"shuffle-mode"`
	Keys      bool   `mapstructure:"keys"`

	Store          string  `mapstructure:"store"`
	Name           string  `mapstructure:"name"`
	Region         string  `mapstructure:"region"`
	Endpoint       string  `mapstructure:"endpoint"`
	MinioAccessKey string  `mapstructure:"minio-access-key"`
	MinioSecretKey string  `mapstructure:"minio-secret-key"`
	MinioSecure    bool    `mapstructure:"minio-secure"`
	DDBTable       string  `mapstructure:"ddb-table"`
	CacheBytes     int64   `mapstructure:"cache-bytes"`
	Codec          string  `mapstructure:"codec"`
	Compression    string  `mapstructure:"compression"`
	Concurrency    int     `mapstructure:"concurrency"`
	Rate           float64 `mapstructure:"rate"`
	Burst          int     `mapstructure:"burst"`
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GROUPCV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "text")
	v.SetDefault("column", groupcv.DefaultColumn)
	v.SetDefault("delimiter", ",")
	v.SetDefault("n-groups", 1)
	v.SetDefault("robust", true)
	v.SetDefault("shuffle-mode", groupcv.ShuffleSharedSeed.String())
	v.SetDefault("codec", "go-json")
	v.SetDefault("compression", "none")
	v.SetDefault("concurrency", 8)
	v.SetDefault("burst", 1)
}

// loadConfig binds flags into v, reads the optional config file and decodes
// the result.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.SeedSet = v.IsSet("seed")

	return cfg, nil
}

// newLogger builds the library logger from --log-level and --log-format.
func newLogger(cfg Config, w io.Writer) (*groupcv.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.LogFormat) {
	case "text":
		return groupcv.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return groupcv.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
}
