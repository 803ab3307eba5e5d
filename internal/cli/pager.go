package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mithrel/sangama/internal/present"
	"github.com/mithrel/sangama/pkg/api"
)

const defaultPager = "less -FRSX"

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveMode picks the output mode: the flag when given, otherwise interactive
// on a terminal and plain when piped.
func resolveMode(flag string, out io.Writer, interactive present.Mode) (present.Mode, error) {
	if flag == "" {
		if isTerminal(out) {
			return interactive, nil
		}
		return present.ModePlain, nil
	}
	mode, ok := present.ParseMode(strings.ToLower(flag))
	if !ok {
		return 0, errInvalidOutput(flag)
	}
	return mode, nil
}

func renderContents(ctx context.Context, cfg *viper.Viper, out, errOut io.Writer, contents []api.Content, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderContents(ctx, out, contents, opts)
	}
	return withPager(ctx, cfg, out, errOut, func(w io.Writer) error {
		return present.RenderContents(ctx, w, contents, opts)
	})
}

func renderContent(ctx context.Context, cfg *viper.Viper, out, errOut io.Writer, c api.Content, opts present.Options) error {
	return withPager(ctx, cfg, out, errOut, func(w io.Writer) error {
		return present.RenderContent(ctx, w, c, opts)
	})
}

func withPager(ctx context.Context, cfg *viper.Viper, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := cfg.GetString("output.pager")
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
