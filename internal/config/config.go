package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream takes precedence over these search paths.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "sangama"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sangama"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: SANGAMA_* (highest among these sources)
	v.SetEnvPrefix("sangama")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for tls.domains
	if s := strings.TrimSpace(os.Getenv("SANGAMA_TLS_DOMAINS")); s != "" {
		v.Set("tls.domains", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CheckConfigValidity reports every invalid setting in one error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if dsn := v.GetString("db_url"); dsn != "" &&
		!strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "mem://") && strings.Contains(dsn, "://") {
		errs = append(errs, fmt.Errorf("db_url scheme must be sqlite:// or mem://, got %q", dsn))
	}
	if addr := v.GetString("http_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Errorf("http_addr %q must be host:port", addr))
		}
	}
	if strings.TrimSpace(v.GetString("content.community")) == "" {
		errs = append(errs, errors.New("content.community is required"))
	}
	if strings.TrimSpace(v.GetString("content.category")) == "" {
		errs = append(errs, errors.New("content.category is required"))
	}
	for _, d := range v.GetStringSlice("tls.domains") {
		if strings.ContainsAny(d, "/: ") {
			errs = append(errs, fmt.Errorf("tls.domains entry %q must be a bare host name", d))
		}
	}
	if email := v.GetString("tls.email"); email != "" && !strings.Contains(email, "@") {
		errs = append(errs, fmt.Errorf("tls.email %q is not an email address", email))
	}
	return errors.Join(errs...)
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/sangama or ~/.local/share/sangama
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sangama")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "sangama")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "sangama", "config.toml")
}
