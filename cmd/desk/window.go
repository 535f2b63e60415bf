package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yourusername/webdesk/internal/client"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/output"
	"github.com/yourusername/webdesk/internal/types"
)

// Open flags, shared by open and new
var (
	openID      string
	openTitle   string
	openIcon    string
	openURL     string
	openContent string
	openWidth   float64
	openHeight  float64
	openX       float64
	openY       float64
)

// openParams collects the open flags that were set
func openParams(cmd *cobra.Command) map[string]interface{} {
	params := map[string]interface{}{}
	set := func(name string, v interface{}) {
		if cmd.Flags().Changed(name) {
			params[name] = v
		}
	}
	set("id", openID)
	set("title", openTitle)
	set("icon", openIcon)
	set("url", openURL)
	set("content", openContent)
	set("width", openWidth)
	set("height", openHeight)
	set("x", openX)
	set("y", openY)
	return params
}

// openCmd opens a registered app
var openCmd = &cobra.Command{
	Use:   "open <app>",
	Short: "Open a window for a registered app",
	Long: `Opens a window for the app with the given id. Singleton apps focus their
existing window instead of opening a second one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		w, err := c.OpenApp(context.Background(), args[0], openParams(cmd))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		return printWindow("Opened", w)
	},
}

// newCmd opens an ad-hoc window
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Open an ad-hoc window",
	Long:  `Opens a window that belongs to no registered app. --url and --content are mutually exclusive.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := call("window.open", openParams(cmd))
		if err != nil {
			return err
		}
		w, err := client.DecodeWindow(result)
		if err != nil {
			return err
		}
		return printWindow("Opened", w)
	},
}

// windowCmd is the parent command for single-window operations
var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Operate on one window",
}

// windowActionCmd builds a "window <action> <id>" command
func windowActionCmd(action, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			defer c.Close()

			w, err := c.WindowAction(context.Background(), action, args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", action, args[0], err)
			}
			return printWindow(verb, w)
		},
	}
}

// windowPairCmd builds a command taking an id and two numbers
func windowPairCmd(action, verb, a, b, short string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <id> <%s> <%s>", action, a, b),
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			va, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %v", a, err)
			}
			vb, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %v", b, err)
			}

			c := newClient()
			defer c.Close()

			w, err := c.WindowAction(context.Background(), action, args[0], map[string]interface{}{a: va, b: vb})
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", action, args[0], err)
			}
			return printWindow(verb, w)
		},
	}
}

var windowTitleCmd = &cobra.Command{
	Use:   "title <id> <title>",
	Short: "Change a window's title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		w, err := c.WindowAction(context.Background(), "title", args[0], map[string]interface{}{"title": args[1]})
		if err != nil {
			return fmt.Errorf("failed to set title: %w", err)
		}
		return printWindow("Renamed", w)
	},
}

var windowGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one window in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getState()
		if err != nil {
			return err
		}
		w := st.FindWindowByID(args[0])
		if w == nil {
			return fmt.Errorf("window %s not found", args[0])
		}
		if jsonOutput {
			return printJSON(w)
		}
		output.PrintWindowDetail(os.Stdout, w)
		return nil
	},
}

// arrangeCmd sets the taskbar arrangement mode
var arrangeCmd = &cobra.Command{
	Use:       "arrange <cascade|tile|none>",
	Short:     "Set the window arrangement mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(types.ArrangeCascade), string(types.ArrangeTile), string(types.ArrangeNone)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := types.ParseArrangeMode(args[0]); !ok {
			return fmt.Errorf("unknown arrange mode %q (use cascade, tile or none)", args[0])
		}
		if _, err := call("desktop.arrange", map[string]interface{}{"mode": args[0]}); err != nil {
			return err
		}
		successColor.Printf("✓ Arrangement set to %s\n", args[0])
		return nil
	},
}

// layoutCmd places windows into a configured grid layout
var layoutCmd = &cobra.Command{
	Use:   "layout <id>",
	Short: "Place windows into a configured grid layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := call("desktop.layout", map[string]interface{}{"layout": args[0]})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(result)
		}

		successColor.Printf("✓ Applied layout %s\n", args[0])
		if placed, ok := result["placed"].(map[string]interface{}); ok {
			for id, cell := range placed {
				keyColor.Printf("  %s", id)
				fmt.Printf(" → %v\n", cell)
			}
		}
		return nil
	},
}

// bulkCmd builds one of the taskbar bulk action commands
func bulkCmd(use, method, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: done + " every open window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := call(method, nil); err != nil {
				return err
			}
			successColor.Printf("✓ %s all windows\n", done)
			return nil
		},
	}
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a closed window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := call("closed.reopen", map[string]interface{}{"id": args[0]})
		if err != nil {
			return err
		}
		w, err := client.DecodeWindow(result)
		if err != nil {
			return err
		}
		return printWindow("Reopened", w)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter apps and closed windows like the launcher",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		result, err := call("launcher.search", map[string]interface{}{"query": query})
		if err != nil {
			return err
		}
		var res models.SearchResult
		if err := models.FromMap(result, &res); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		keyColor.Printf("Apps (%d)\n", len(res.Apps))
		if len(res.Apps) > 0 {
			output.PrintApplicationsTable(os.Stdout, res.Apps)
		}
		keyColor.Printf("Recently closed (%d)\n", len(res.Closed))
		if len(res.Closed) > 0 {
			output.PrintClosedTable(os.Stdout, res.Closed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(arrangeCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(bulkCmd("minimize-all", "desktop.minimizeAll", "Minimized"))
	rootCmd.AddCommand(bulkCmd("restore-all", "desktop.restoreAll", "Restored"))
	rootCmd.AddCommand(bulkCmd("close-all", "desktop.closeAll", "Closed"))
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(searchCmd)

	windowCmd.AddCommand(windowGetCmd)
	windowCmd.AddCommand(windowActionCmd("minimize", "Minimized", "Minimize a window"))
	windowCmd.AddCommand(windowActionCmd("restore", "Restored", "Restore a window to normal mode"))
	windowCmd.AddCommand(windowActionCmd("maximize", "Maximized", "Maximize a window"))
	windowCmd.AddCommand(windowActionCmd("close", "Closed", "Close a window"))
	windowCmd.AddCommand(windowActionCmd("focus", "Focused", "Bring a window to the front"))
	windowCmd.AddCommand(windowPairCmd("move", "Moved", "x", "y", "Drag a window to a new position"))
	windowCmd.AddCommand(windowPairCmd("resize", "Resized", "width", "height", "Resize a window from its bottom-right corner"))
	windowCmd.AddCommand(windowTitleCmd)

	for _, cmd := range []*cobra.Command{openCmd, newCmd} {
		cmd.Flags().StringVar(&openID, "id", "", "Window id (generated when empty)")
		cmd.Flags().StringVar(&openTitle, "title", "", "Window title")
		cmd.Flags().StringVar(&openIcon, "icon", "", "Window icon")
		cmd.Flags().Float64Var(&openWidth, "width", 0, "Width in pixels (optional)")
		cmd.Flags().Float64Var(&openHeight, "height", 0, "Height in pixels (optional)")
		cmd.Flags().Float64Var(&openX, "x", 0, "X position (optional)")
		cmd.Flags().Float64Var(&openY, "y", 0, "Y position (optional)")
	}
	newCmd.Flags().StringVar(&openURL, "url", "", "URL to frame")
	newCmd.Flags().StringVar(&openContent, "content", "", "Inline content")
}
