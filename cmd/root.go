package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"TamilFM/config"
	"TamilFM/core/gateway"
	"TamilFM/core/library"
	"TamilFM/core/profile"
	"TamilFM/core/session"
	"TamilFM/logger"
	"TamilFM/model"
)

var rootCmd = &cobra.Command{
	Use:   "tamilfm",
	Short: "TamilFM is a Tamil music player client.",
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		state := app.sessions.State()
		if state.Status == model.Authenticated {
			fmt.Printf("Signed in as %s\n", state.Identity.Email)
		} else {
			fmt.Println("Not signed in. Use `tamilfm signin` or `tamilfm signup`.")
		}
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the wired services. All state lives in them; commands are thin.
type app struct {
	cfg      *config.Config
	gw       *gateway.Client
	sessions *session.Store
	profiles *profile.Synchronizer
	lib      *library.Library
}

// newApp loads configuration, initializes logging, wires the services and
// restores the session from the persisted credential.
func newApp() *app {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})

	if cfg.BackendURL == "" {
		fmt.Fprintln(os.Stderr, "BACKEND_URL is not set; configure it in the environment or .env")
		os.Exit(1)
	}

	gw := gateway.NewClient(cfg.BackendURL, cfg.BackendAnonKey, nil)
	sessions := session.NewStore(gw, session.NewCredentialStore(cfg.CredentialFile()))
	profiles := profile.NewSynchronizer(gw, sessions)
	lib := library.NewLibrary(gw, sessions, cfg.SongsBucket, cfg.ImagesBucket)

	// Sign-out (local or external) invalidates the cached profile.
	sessions.Subscribe(func(st model.SessionState) {
		if st.Status == model.Unauthenticated && !st.Loading {
			profiles.Reset()
		}
	})

	sessions.Restore()
	return &app{cfg: cfg, gw: gw, sessions: sessions, profiles: profiles, lib: lib}
}

// requireIdentity exits unless the session is authenticated.
func (a *app) requireIdentity() *model.Identity {
	state := a.sessions.State()
	if state.Status != model.Authenticated {
		fmt.Fprintln(os.Stderr, "Not signed in. Use `tamilfm signin` first.")
		os.Exit(1)
	}
	return state.Identity
}
