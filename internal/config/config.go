// Package config loads typed application settings from configs/config.yml and
// AUDIOVAULT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	envPrefix = "AUDIOVAULT"
)

type Config struct {
	Port      string
	Log       LogConfig
	DB        DBConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Sweeper   SweeperConfig
	HTTP      HTTPConfig
	Bootstrap BootstrapConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	Secret     string
	TokenTTL   time.Duration
	LoginRate  float64 // attempts per second per client; 0 disables throttling
	LoginBurst int
}

type StorageConfig struct {
	UploadRoot     string
	VerifyContent  bool  // sniff uploaded bytes and reject a mismatch with the declared type
	MaxUploadBytes int64 // 0 means unlimited
}

type SweeperConfig struct {
	Interval time.Duration // 0 disables the background loop
	Grace    time.Duration
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

type BootstrapConfig struct {
	UsersFile string
}

var (
	ErrMissingSecret = errors.New("auth.secret is required")
	ErrBadDriver     = errors.New("db.driver must be sqlite or postgres")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "audio.db")
	v.SetDefault("db.max_open_conns", 0)
	v.SetDefault("db.max_idle_conns", 0)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.login_rate", 1.0)
	v.SetDefault("auth.login_burst", 5)
	v.SetDefault("storage.upload_root", "./uploads")
	v.SetDefault("storage.verify_content", false)
	v.SetDefault("storage.max_upload_bytes", 100<<20)
	v.SetDefault("sweeper.interval", 10*time.Minute)
	v.SetDefault("sweeper.grace", time.Hour)
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 5*time.Minute)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("bootstrap.users_file", "")
}

// Load reads config.yml from dir (when present) and applies env overrides.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config in %q: %w", dir, err)
		}
	}

	cfg := Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			DSN:          v.GetString("db.dsn"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Auth: AuthConfig{
			Secret:     v.GetString("auth.secret"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
			LoginRate:  v.GetFloat64("auth.login_rate"),
			LoginBurst: v.GetInt("auth.login_burst"),
		},
		Storage: StorageConfig{
			UploadRoot:     v.GetString("storage.upload_root"),
			VerifyContent:  v.GetBool("storage.verify_content"),
			MaxUploadBytes: v.GetInt64("storage.max_upload_bytes"),
		},
		Sweeper: SweeperConfig{
			Interval: v.GetDuration("sweeper.interval"),
			Grace:    v.GetDuration("sweeper.grace"),
		},
		HTTP: HTTPConfig{
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
		},
		Bootstrap: BootstrapConfig{
			UsersFile: v.GetString("bootstrap.users_file"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingSecret
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: got %q", ErrBadDriver, c.DB.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Storage.UploadRoot == "" {
		return errors.New("storage.upload_root is required")
	}
	return nil
}
