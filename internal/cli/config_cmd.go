package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/mithrel/sangama/internal/config"
	"github.com/mithrel/sangama/internal/keys"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Annotations: map[string]string{skipAppAnnotation: "true"},
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	cmd.AddCommand(newConfigTokenCmd())
	return cmd
}

// configWrite is what `config generate` will do to the target file.
type configWrite int

const (
	writeFresh configWrite = iota
	writeReplace
	writeMerge
)

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite, update bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			mode := writeFresh
			switch {
			case overwrite:
				mode = writeReplace
			case update:
				mode = writeMerge
			}
			return generateConfig(cmd, out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			dsn, _ := cmd.Flags().GetString("db")
			v, err := loadConfig(cmd.Context(), cfgPath, dsn)
			if err != nil {
				return err
			}
			if v.GetBool("auth.keyring") && strings.TrimSpace(v.GetString("auth.token")) == "" {
				if err := keys.Probe(tokenStore); err != nil {
					return fmt.Errorf("invalid config: auth.keyring is set but %w", err)
				}
			}
			used := v.ConfigFileUsed()
			if used == "" {
				used = "(defaults only)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\nStore: %s\n", used, config.ResolveDBURL(v))
			return nil
		},
	}
}

func generateConfig(cmd *cobra.Command, path string, mode configWrite) error {
	current, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if exists && mode == writeFresh {
		return fmt.Errorf("config already exists at %s; use --overwrite to replace (this will delete your current config) or --update to merge defaults", path)
	}

	next := config.RenderDefaultTOML()
	if exists && mode == writeMerge {
		merged, changed := config.UpdateTOML(string(current))
		if !changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already up to date: %s\n", path)
			return nil
		}
		next = merged
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	backup := ""
	if exists {
		if backup, err = writeBackup(path, current); err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
	}
	if err := renameio.WriteFile(path, []byte(next), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	if backup != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", backup)
	}
	return nil
}

// writeBackup stores data next to path as .bak, or a timestamped .bak-* when
// an older backup is already there.
func writeBackup(path string, data []byte) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	return backup, renameio.WriteFile(backup, data, 0o600)
}
