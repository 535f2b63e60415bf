package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yourusername/webdesk/internal/config"
	"github.com/yourusername/webdesk/internal/state"
)

// MARK: - Config Commands

// configCmd is the parent command for config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for showing, validating and creating the desk configuration.`,
}

// configShowCmd shows current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if jsonOutput {
			return printJSON(cfg)
		}
		data, err := cfg.Marshal("yaml")
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

// configValidateCmd validates config file
var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		successColor.Println("✓ Configuration is valid")
		fmt.Printf("  Apps: %d\n", len(cfg.Apps))
		fmt.Printf("  Layouts: %d\n", len(cfg.Layouts))
		fmt.Printf("  Viewport: %.0fx%.0f\n", cfg.Settings.Viewport.Width, cfg.Settings.Viewport.Height)
		fmt.Printf("  Arrange: %s\n", cfg.GetArrangeMode())

		return nil
	},
}

const defaultConfig = `# webdesk configuration
settings:
  viewport:
    width: 1280
    height: 800
  taskbarHeight: 48
  padding: 10
  arrangeMode: none
  window:
    width: 600
    height: 400
    minWidth: 300
    minHeight: 200
  autosaveInterval: 30
  restoreSession: true

apps:
  - id: notes
    title: Notes
    icon: "📝"
    content: "<textarea></textarea>"
    singleton: true
  - id: docs
    title: Docs
    icon: "📄"
    url: https://pkg.go.dev
    width: 900
    height: 600

layouts:
  - id: main-side
    name: Main + Sidebar
    description: Large main area with sidebar
    grid:
      columns: ["2fr", "1fr"]
      rows: ["1fr"]
    areas:
      - [main, side]
`

// configInitCmd creates default config
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if _, err := config.LoadConfigFromBytes([]byte(defaultConfig), "yaml"); err != nil {
			return fmt.Errorf("built-in config is invalid: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		successColor.Printf("✓ Created default config at: %s\n", path)
		return nil
	},
}

// MARK: - State Commands

// stateCmd is the parent command for state subcommands
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage the saved session",
	Long:  `Commands for showing and resetting the session file desk serve restores from.`,
}

// sessionPath resolves the session file from config, falling back to the default
func sessionPath() string {
	if cfg, err := config.LoadConfigOrDefault(configPath); err == nil && cfg.Settings.StatePath != "" {
		return cfg.Settings.StatePath
	}
	return state.GetStatePath()
}

// stateShowCmd shows the saved session
var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := sessionPath()
		sess, err := state.LoadSessionFrom(path)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}

		if jsonOutput {
			return printJSON(sess)
		}

		keyColor.Print("Session File: ")
		fmt.Println(path)
		keyColor.Print("State Version: ")
		fmt.Println(sess.Version)
		keyColor.Print("Last Updated: ")
		fmt.Println(sess.LastUpdated.Format("2006-01-02 15:04:05"))
		keyColor.Print("Arrange Mode: ")
		fmt.Println(sess.Arrange())
		keyColor.Print("Windows: ")
		fmt.Println(len(sess.Windows))
		fmt.Println()

		for _, w := range sess.Windows {
			keyColor.Printf("%s", w.ID)
			fmt.Printf("  %s [%s] %.0fx%.0f @ (%.0f, %.0f)\n", w.Title, w.Mode,
				w.Geometry.Width, w.Geometry.Height, w.Geometry.X, w.Geometry.Y)
		}
		if len(sess.Closed) > 0 {
			keyColor.Printf("\nClosed: %d\n", len(sess.Closed))
			for _, cw := range sess.Closed {
				fmt.Printf("  %s  %s\n", cw.ID, cw.Title)
			}
		}
		return nil
	},
}

// stateResetCmd resets the saved session
var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := sessionPath()
		sess, err := state.LoadSessionFrom(path)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		if err := sess.ResetAt(path); err != nil {
			return fmt.Errorf("failed to reset state: %w", err)
		}

		successColor.Println("✓ State has been reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
}
