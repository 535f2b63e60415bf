package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/webdesk/internal/config"
	"github.com/yourusername/webdesk/internal/desktop"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/server"
	"github.com/yourusername/webdesk/internal/state"
)

var (
	serveForeground bool
	serveNoRestore  bool
)

// serveCmd runs the desktop
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the desktop and its socket server",
	Long: `Starts the desktop page on its event loop and serves the socket API.
The previous session is restored on start and saved periodically and on exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveForeground {
			logging.InitWriter(os.Stderr)
			logging.SetDebug(debugMode)
		}

		cfg, err := config.LoadConfigOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		sock := socketPath
		if !cmd.Flags().Changed("socket") && cfg.Settings.SocketPath != "" {
			sock = cfg.Settings.SocketPath
		}
		statePath := cfg.Settings.StatePath
		if statePath == "" {
			statePath = state.GetStatePath()
		}

		l := loop.New()
		d := desktop.New(cfg, l)
		defer d.Close()

		if cfg.Settings.RestoreSession && !serveNoRestore {
			sess, err := state.LoadSessionFrom(statePath)
			if err != nil {
				logging.Warn().Err(err).Str("path", statePath).Msg("session not restored")
			} else {
				d.RestoreSession(sess)
				logging.Info().Int("windows", len(sess.Windows)).Msg("session restored")
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		saver := &desktop.Autosaver{
			Desktop:  d,
			Path:     statePath,
			Interval: time.Duration(cfg.Settings.AutosaveInterval) * time.Second,
		}

		infoColor.Printf("desk serving on %s\n", sock)
		runErr := server.Run(ctx, l, server.New(sock, d), saver)

		// The loop has stopped, so the page can be captured directly
		if err := d.Capture().SaveTo(statePath); err != nil {
			logging.Error().Err(err).Str("path", statePath).Msg("final session save failed")
		} else {
			logging.Info().Str("path", statePath).Msg("session saved")
		}

		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveForeground, "foreground", false, "Log to stderr instead of the log file")
	serveCmd.Flags().BoolVar(&serveNoRestore, "no-restore", false, "Start with an empty desktop")
}
