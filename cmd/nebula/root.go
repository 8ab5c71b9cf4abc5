package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/profiles"
	"github.com/Terence890/Nebula-Stream/frontend/session"
	"github.com/Terence890/Nebula-Stream/frontend/store"
	"github.com/Terence890/Nebula-Stream/models"
)

var errNoProfile = errors.New("no profile selected; run `nebula profiles select NAME`")

// app is the state shared by every subcommand.
type app struct {
	cfg    cliConfig
	api    *client.Client
	store  *store.Store
	out    io.Writer
	notify notify.Notifier
	logs   io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:           "nebula",
		Short:         "Browse trending movies and TV shows and play their trailers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loadConfig(v, configPath)
			if err != nil {
				return err
			}
			return a.init(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrowse(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default <state-dir>/nebula.yaml)")
	flags.String("backend-url", defaultBackendURL, "NebulaStream API base URL")
	flags.String("state-dir", defaultStateDir(), "directory for the saved session and logs")
	flags.String("player", "mpv", "video player used for trailers")
	flags.String("log-file", "", "log file (default <state-dir>/nebula.log)")

	root.AddCommand(
		a.browseCmd(),
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.profilesCmd(),
		a.titlesCmd(),
		a.watchlistCmd(),
		a.historyCmd(),
		a.trailerCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) init(cfg cliConfig, out, errOut io.Writer) error {
	a.cfg = cfg
	a.out = out
	a.notify = notify.NewWriter(errOut)

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logger := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
	}
	log.SetOutput(logger)
	a.logs = logger

	st, err := store.Open(afero.NewOsFs(), cfg.StateDir)
	if err != nil {
		return err
	}
	a.store = st
	a.api = client.New(cfg.BackendURL, nil)
	if token, ok := st.Get(store.KeyToken); ok {
		a.api.SetToken(token)
	}
	log.Printf("[cli] backend %s, state %s", cfg.BackendURL, cfg.StateDir)
	return nil
}

func (a *app) close() {
	if a.logs != nil {
		a.logs.Close()
	}
}

func (a *app) session() *session.Session {
	return session.New(a.api, a.store, a.notify)
}

func (a *app) profileHolder() *profiles.Holder {
	return profiles.NewHolder(a.api, a.store, a.notify)
}

// selectedProfile loads the profile list and returns the remembered selection.
func (a *app) selectedProfile(ctx context.Context) (models.Profile, error) {
	holder := a.profileHolder()
	if err := holder.Fetch(ctx); err != nil {
		return models.Profile{}, err
	}
	p, ok := holder.Selected()
	if !ok {
		return models.Profile{}, errNoProfile
	}
	return p, nil
}
