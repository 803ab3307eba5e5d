package wire

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/sangama/internal/config"
	"github.com/mithrel/sangama/internal/db"
	"github.com/mithrel/sangama/internal/editor"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg    *viper.Viper
	Log    *log.Logger
	Store  *db.Store
	Editor *editor.Service

	closer io.Closer
}

// BuildApp wires dependencies with the provided config.
// Logs go to logOut (stderr when nil) so command output stays clean.
func BuildApp(ctx context.Context, cfg *viper.Viper, logOut io.Writer) (*App, error) {
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "sangama ", log.LstdFlags)

	store, closer, err := db.Open(ctx, config.ResolveDBURL(cfg))
	if err != nil {
		return nil, err
	}
	svc := editor.NewService(store.Contents, editor.Defaults{
		Community: cfg.GetString("content.community"),
		Category:  cfg.GetString("content.category"),
	}, logger)
	return &App{
		Cfg:    cfg,
		Log:    logger,
		Store:  store,
		Editor: svc,
		closer: closer,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
