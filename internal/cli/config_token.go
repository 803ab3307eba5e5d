package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/sangama/internal/keys"
)

// tokenStore is where `config token` keeps the API bearer token.
var tokenStore keys.TokenStore = &keys.KeyringStore{}

func newConfigTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API token kept in the system keyring",
		Long:  "The keyring token is used by serve when auth.token is empty and auth.keyring = true.",
	}
	cmd.AddCommand(newConfigTokenSetCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the API token from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tokenStore.Delete(keys.APITokenID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API token cleared")
			return nil
		},
	})
	return cmd
}

func newConfigTokenSetCmd() *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an API token (read from stdin, or generated)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tok string
			var err error
			if generate {
				tok, err = keys.NewToken()
			} else {
				tok, err = readToken(cmd)
			}
			if err != nil {
				return err
			}
			if tok == "" {
				return errors.New("token is empty")
			}
			if err := tokenStore.Put(keys.APITokenID, tok); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			if generate {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API token stored")
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random token and print it once")
	return cmd
}

// readToken prompts without echo on a terminal; otherwise it reads the first line of stdin.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "API token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
