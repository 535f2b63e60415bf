package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yourusername/webdesk/internal/client"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/output"
)

var (
	socketPath string
	configPath string
	timeout    time.Duration
	jsonOutput bool
	noColor    bool
	debugMode  bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "desk",
	Short: "webdesk - headless browser desktop shell",
	Long: `Desk runs and drives a browser-style desktop: floating windows with
minimize, maximize, drag and resize, and a taskbar with a launcher.

Start the desktop with 'desk serve', then use the other commands to query
and manipulate it over its Unix socket.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// pingCmd tests server connectivity
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connection to the desk server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		start := time.Now()
		result, err := c.Ping(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}

		if jsonOutput {
			return printJSON(result)
		}

		successColor.Println("✓ Pong received")
		fmt.Printf("Response time: %v\n", elapsed)
		if uptime, ok := result["uptime"].(string); ok {
			fmt.Printf("Server uptime: %s\n", uptime)
		}
		return nil
	},
}

// dumpCmd dumps the complete state
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump complete desktop state",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getState()
		if err != nil {
			return err
		}
		// Always JSON: the state is too nested for a table
		return printJSON(st)
	},
}

// Visualization flags
var (
	showASCII   bool
	showUnicode bool
	showIDs     bool
	showWidth   int
	showHeight  int
)

// showCmd draws the desktop
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Visualize the desktop",
	Long: `Draws the desktop in ASCII/Unicode: visible windows as boxes in stacking
order, the focused window highlighted and the taskbar along the bottom.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getState()
		if err != nil {
			return err
		}
		output.PrintVisualization(os.Stdout, st, getVisualizationOptions())
		return nil
	},
}

// listCmd is the parent command for list subcommands
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List windows, apps or closed windows",
}

var listWindowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List open windows in taskbar order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var windows []*models.Window
		if err := callInto("windows.list", nil, "windows", &windows); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(windows)
		}
		if len(windows) == 0 {
			infoColor.Println("No open windows")
			return nil
		}
		output.PrintWindowsTable(os.Stdout, windows)
		return nil
	},
}

var listAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List registered apps",
	RunE: func(cmd *cobra.Command, args []string) error {
		var apps []*models.Application
		if err := callInto("apps.list", nil, "apps", &apps); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(apps)
		}
		output.PrintApplicationsTable(os.Stdout, apps)
		return nil
	},
}

var listClosedCmd = &cobra.Command{
	Use:   "closed",
	Short: "List reopenable closed windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		var closed []*models.ClosedWindow
		if err := callInto("closed.list", nil, "closed", &closed); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(closed)
		}
		if len(closed) == 0 {
			infoColor.Println("No closed windows")
			return nil
		}
		output.PrintClosedTable(os.Stdout, closed)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", client.DefaultSocketPath, "Unix socket path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/webdesk/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)

	listCmd.AddCommand(listWindowsCmd)
	listCmd.AddCommand(listAppsCmd)
	listCmd.AddCommand(listClosedCmd)

	showCmd.Flags().BoolVar(&showASCII, "ascii", false, "Force ASCII mode (no Unicode)")
	showCmd.Flags().BoolVar(&showUnicode, "unicode", false, "Force Unicode mode")
	showCmd.Flags().BoolVar(&showIDs, "ids", false, "Show window IDs")
	showCmd.Flags().IntVar(&showWidth, "width", 0, "Override terminal width")
	showCmd.Flags().IntVar(&showHeight, "height", 0, "Override terminal height")

	// Disable color if requested, enable debug logging if requested
	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			logging.SetDebug(true)
		}
	})
}

func main() {
	if err := logging.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: logging disabled:", err)
	}
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// Helper functions

func newClient() *client.Client {
	return client.NewClient(socketPath, timeout)
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}

// call runs one method against the server
func call(method string, params map[string]interface{}) (map[string]interface{}, error) {
	c := newClient()
	defer c.Close()

	result, err := c.CallMethod(context.Background(), method, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return result, nil
}

// callInto runs method and decodes result[key] into v
func callInto(method string, params map[string]interface{}, key string, v interface{}) error {
	result, err := call(method, params)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result[key])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// getState retrieves and parses the current state from the server
func getState() (*models.State, error) {
	c := newClient()
	defer c.Close()

	st, err := c.Dump(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return st, nil
}

// getVisualizationOptions builds options from flags
func getVisualizationOptions() output.VisualizationOptions {
	opts := output.DefaultVisualizationOptions()

	if showASCII {
		opts.UseUnicode = false
	}
	if showUnicode {
		opts.UseUnicode = true
	}
	opts.ShowIDs = showIDs
	if showWidth > 0 {
		opts.MaxWidth = showWidth
	}
	if showHeight > 0 {
		opts.MaxHeight = showHeight
	}

	return opts
}

// printWindow prints a window result line, or JSON
func printWindow(verb string, w *models.Window) error {
	if jsonOutput {
		return printJSON(w)
	}
	successColor.Printf("✓ %s ", verb)
	fmt.Printf("%s %s\n", w.ID, strings.TrimSpace(w.Title))
	keyColor.Print("  Mode: ")
	fmt.Println(w.Mode)
	keyColor.Print("  Frame: ")
	fmt.Println(w.FormatFrame())
	return nil
}
