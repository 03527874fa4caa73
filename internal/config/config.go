package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	applog "bookstore/internal/log"
)

type Config struct {
	Port      string `mapstructure:"port"`
	DBDSN     string `mapstructure:"db_dsn"`
	UploadDir string `mapstructure:"upload_dir"`

	LogFile       string `mapstructure:"log_file"`
	LogLevel      string `mapstructure:"log_level"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age"`

	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`

	// MaxUploadMB is the per-file ceiling for ebook uploads, in MiB.
	MaxUploadMB int64    `mapstructure:"max_upload_mb"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// MaxUploadBytes is the per-file ceiling in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

// BodyLimit is large enough for one cover plus one document at the ceiling.
func (c Config) BodyLimit() int { return int(2*c.MaxUploadBytes() + 1<<20) }

// Defaults seeds v with every key Load understands.
func Defaults(v *viper.Viper) {
	v.SetDefault("port", "4001")
	v.SetDefault("db_dsn", "bookstore.db")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("log_file", "./bookstore.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size", 20)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age", 28)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
	v.SetDefault("max_upload_mb", 50)
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
}

// Load reads defaults, an optional config file named by BOOKSTORE_CONFIG and
// environment variables (PORT, DB_DSN, UPLOAD_DIR, JWT_SECRET, ...).
func Load() (Config, error) {
	v := viper.New()
	Defaults(v)
	return FromViper(v)
}

// FromViper finishes loading from a viper instance that may already carry
// bound flags.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("BOOKSTORE_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	// env lists arrive as one comma separated string
	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD is not set")
	}

	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "upload_dir": cfg.UploadDir,
		"log_file": cfg.LogFile, "max_upload_mb": cfg.MaxUploadMB,
	})
	return cfg, nil
}
