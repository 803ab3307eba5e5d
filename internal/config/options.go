package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/sangama.db"},
		{Key: "db_url", Default: "", Comment: "Content store DSN (sqlite://path or mem://); empty uses data_dir/sangama.db"},
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for `sangama serve`"},

		{Key: "auth.token", Default: "", Comment: "Bearer token required by JSON write endpoints; empty disables the check"},
		{Key: "auth.keyring", Default: false, Comment: "Read the API token from the system keyring when auth.token is empty"},

		{Key: "web.title", Default: "Daily Sangama", Comment: "Page title"},
		{Key: "web.editing", Default: true, Comment: "Show the add-content form and the seed button"},
		{Key: "web.forms_with_token", Default: false, Comment: "Keep the form and seed button open when an API token is configured (they send no token)"},

		{Key: "content.community", Default: "sangha-bengaluru-north", Comment: "Community assigned to new content"},
		{Key: "content.category", Default: "routine", Comment: "Category assigned to new content"},

		{Key: "tls.domains", Default: []string{}, Comment: "Serve HTTPS with ACME certificates for these domains"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},

		{Key: "output.pager", Default: "", Comment: "Pager for terminal output; empty uses $PAGER or less -FRSX"},
	}
}

// DefaultDBPath builds the default sqlite DB path from data_dir rules.
func DefaultDBPath() string {
	return filepath.Join(defaultDataDir(), "sangama.db")
}

// ResolveDBURL returns db_url when set, otherwise a sqlite DSN under data_dir.
func ResolveDBURL(v *viper.Viper) string {
	if u := v.GetString("db_url"); u != "" {
		return u
	}
	return "sqlite://" + ResolveDBPath(v)
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "sangama.db")
}
