package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aretw0/folio/pkg/content"
)

// EnvPrefix is the prefix of environment overrides, e.g. FOLIO_ADMIN_PASSWORD.
const EnvPrefix = "FOLIO"

// Config is the file/env form of the options. It is read from folio.yaml,
// FOLIO_* environment variables and an optional .env file.
type Config struct {
	Adapter         string        `mapstructure:"adapter"`
	DataDir         string        `mapstructure:"data_dir"`
	SystemDir       string        `mapstructure:"system_dir"`
	Defaults        string        `mapstructure:"defaults"`
	ExportDir       string        `mapstructure:"export_dir"`
	ExportFormat    string        `mapstructure:"export_format"`
	ExportName      string        `mapstructure:"export_name"`
	VersionedExport bool          `mapstructure:"versioned_export"`
	AssetsDir       string        `mapstructure:"assets_dir"`
	StrictPaths     bool          `mapstructure:"strict_paths"`
	ReadOnly        bool          `mapstructure:"read_only"`
	DevSafety       bool          `mapstructure:"dev_safety"`
	Redis           RedisConfig   `mapstructure:"redis"`
	SQLite          SQLiteConfig  `mapstructure:"sqlite"`
	Contact         ContactConfig `mapstructure:"contact"`
	Admin           AdminConfig   `mapstructure:"admin"`
	Server          ServerConfig  `mapstructure:"server"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ContactConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type AdminConfig struct {
	Password string        `mapstructure:"password"`
	Secret   string        `mapstructure:"secret"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("adapter", AdapterFS)
	v.SetDefault("data_dir", ".")
	v.SetDefault("system_dir", ".folio")
	v.SetDefault("defaults", "")
	v.SetDefault("export_dir", "")
	v.SetDefault("export_format", string(content.FormatJSON))
	v.SetDefault("export_name", "content.json")
	v.SetDefault("versioned_export", false)
	v.SetDefault("assets_dir", "")
	v.SetDefault("strict_paths", false)
	v.SetDefault("read_only", false)
	v.SetDefault("dev_safety", true)
	v.SetDefault("redis.address", defaultRedisAddress)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "folio:")
	v.SetDefault("sqlite.path", "")
	v.SetDefault("contact.endpoint", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.secret", "")
	v.SetDefault("admin.ttl", "12h")
	v.SetDefault("server.addr", ":8080")
}

// NewViper returns a viper instance with folio's defaults and env binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfig reads configuration into v. cfgFile may be empty, in which
// case folio.yaml is looked up in dir. envFiles are loaded with godotenv
// first; missing ones are skipped. Existing environment variables win
// over .env entries.
func LoadConfig(v *viper.Viper, cfgFile, dir string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Options maps the configuration to functional options.
func (c *Config) Options() ([]Option, error) {
	format, err := content.ParseFormat(c.ExportFormat)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithAdapter(c.Adapter),
		WithSystemDir(c.SystemDir),
		WithExportFormat(format),
		WithExportName(c.ExportName),
		WithVersionedExport(c.VersionedExport),
		WithStrictPaths(c.StrictPaths),
		WithReadOnly(c.ReadOnly),
		WithDevSafety(c.DevSafety),
		WithRedis(c.Redis.Address, c.Redis.Password, c.Redis.DB, c.Redis.Prefix),
	}
	if c.Defaults != "" {
		opts = append(opts, WithDefaults(c.Defaults))
	}
	if c.ExportDir != "" {
		opts = append(opts, WithExportDir(c.ExportDir))
	}
	if c.AssetsDir != "" {
		opts = append(opts, WithAssetsDir(c.AssetsDir))
	}
	if c.SQLite.Path != "" {
		opts = append(opts, WithSQLitePath(c.SQLite.Path))
	}
	if c.Contact.Endpoint != "" {
		opts = append(opts, WithContactEndpoint(c.Contact.Endpoint))
	}
	if c.Admin.Password != "" {
		opts = append(opts, WithAdmin(c.Admin.Password, c.Admin.Secret, c.Admin.TTL))
	}
	return opts, nil
}
