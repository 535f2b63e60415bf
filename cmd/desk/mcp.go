package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// caller is the part of client.Client the tools need
type caller interface {
	CallMethod(ctx context.Context, method string, params map[string]interface{}) (map[string]interface{}, error)
}

// mcpServer exposes the desk socket API as MCP tools
type mcpServer struct {
	desk caller
	mcp  *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

var windowActions = []string{"minimize", "restore", "maximize", "close", "focus", "move", "resize", "title"}

var bulkMethods = map[string]string{
	"minimize_all": "desktop.minimizeAll",
	"restore_all":  "desktop.restoreAll",
	"close_all":    "desktop.closeAll",
}

func newMCPServer(desk caller) *mcpServer {
	s := &mcpServer{
		desk: desk,
		mcp:  mcpserver.NewMCPServer("webdesk", rootCmd.Version),
	}
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List open desktop windows in taskbar order with their mode, frame and stacking order"),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_apps",
			mcp.WithDescription("List the apps registered with the taskbar and how many windows each has open"),
		),
		s.handleListApps,
	)

	s.mcp.AddTool(
		mcp.NewTool("open_app",
			mcp.WithDescription("Open a window for a registered app. Singleton apps focus their existing window."),
			mcp.WithString("app", mcp.Description("App id"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Override the window title")),
			mcp.WithNumber("width", mcp.Description("Width in pixels")),
			mcp.WithNumber("height", mcp.Description("Height in pixels")),
			mcp.WithNumber("x", mcp.Description("Left edge in pixels")),
			mcp.WithNumber("y", mcp.Description("Top edge in pixels")),
		),
		s.handleOpenApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("open_window",
			mcp.WithDescription("Open an ad-hoc window showing a URL or inline content"),
			mcp.WithString("title", mcp.Description("Window title")),
			mcp.WithString("icon", mcp.Description("Window icon")),
			mcp.WithString("url", mcp.Description("URL to frame (exclusive with content)")),
			mcp.WithString("content", mcp.Description("Inline content (exclusive with url)")),
			mcp.WithNumber("width", mcp.Description("Width in pixels")),
			mcp.WithNumber("height", mcp.Description("Height in pixels")),
			mcp.WithNumber("x", mcp.Description("Left edge in pixels")),
			mcp.WithNumber("y", mcp.Description("Top edge in pixels")),
		),
		s.handleOpenWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("window_action",
			mcp.WithDescription("Act on one window: minimize, restore, maximize, close, focus, move (x, y), resize (width, height) or title (title)"),
			mcp.WithString("id", mcp.Description("Window id"), mcp.Required()),
			mcp.WithString("action", mcp.Description("Action to perform"), mcp.Required(), mcp.Enum(windowActions...)),
			mcp.WithNumber("x", mcp.Description("Target left edge for move")),
			mcp.WithNumber("y", mcp.Description("Target top edge for move")),
			mcp.WithNumber("width", mcp.Description("Target width for resize")),
			mcp.WithNumber("height", mcp.Description("Target height for resize")),
			mcp.WithString("title", mcp.Description("New title for title")),
		),
		s.handleWindowAction,
	)

	s.mcp.AddTool(
		mcp.NewTool("arrange",
			mcp.WithDescription("Set the arrangement mode (cascade, tile, none) or place windows into a configured grid layout"),
			mcp.WithString("mode", mcp.Description("Arrangement mode"), mcp.Enum("cascade", "tile", "none")),
			mcp.WithString("layout", mcp.Description("Grid layout id from the config (instead of mode)")),
		),
		s.handleArrange,
	)

	s.mcp.AddTool(
		mcp.NewTool("bulk_action",
			mcp.WithDescription("Minimize, restore or close every open window"),
			mcp.WithString("action", mcp.Description("Bulk action"), mcp.Required(), mcp.Enum("minimize_all", "restore_all", "close_all")),
		),
		s.handleBulkAction,
	)

	s.mcp.AddTool(
		mcp.NewTool("reopen",
			mcp.WithDescription("Reopen a recently closed window by id"),
			mcp.WithString("id", mcp.Description("Closed window id"), mcp.Required()),
		),
		s.handleReopen,
	)

	s.mcp.AddTool(
		mcp.NewTool("search",
			mcp.WithDescription("Filter registered apps and recently closed windows by title, like the launcher"),
			mcp.WithString("query", mcp.Description("Case-insensitive substring")),
		),
		s.handleSearch,
	)
}

// forward runs method and renders the result as YAML
func (s *mcpServer) forward(ctx context.Context, method string, params map[string]interface{}) (*mcp.CallToolResult, error) {
	result, err := s.desk.CallMethod(ctx, method, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := yaml.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// pick copies the named arguments that are present
func pick(args map[string]interface{}, keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if v, ok := args[k]; ok && v != nil {
			out[k] = v
		}
	}
	return out
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func (s *mcpServer) handleListWindows(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.forward(ctx, "windows.list", nil)
}

func (s *mcpServer) handleListApps(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.forward(ctx, "apps.list", nil)
}

func (s *mcpServer) handleOpenApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if stringArg(args, "app") == "" {
		return mcp.NewToolResultError("app is required"), nil
	}
	return s.forward(ctx, "app.open", pick(args, "app", "title", "width", "height", "x", "y"))
}

func (s *mcpServer) handleOpenWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	return s.forward(ctx, "window.open", pick(args, "title", "icon", "url", "content", "width", "height", "x", "y"))
}

func (s *mcpServer) handleWindowAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id := stringArg(args, "id")
	action := stringArg(args, "action")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	var params map[string]interface{}
	switch action {
	case "minimize", "restore", "maximize", "close", "focus":
		params = pick(args, "id")
	case "move":
		params = pick(args, "id", "x", "y")
	case "resize":
		params = pick(args, "id", "width", "height")
	case "title":
		params = pick(args, "id", "title")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q", action)), nil
	}
	return s.forward(ctx, "window."+action, params)
}

func (s *mcpServer) handleArrange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if layout := stringArg(args, "layout"); layout != "" {
		return s.forward(ctx, "desktop.layout", map[string]interface{}{"layout": layout})
	}
	mode := stringArg(args, "mode")
	if mode == "" {
		return mcp.NewToolResultError("mode or layout is required"), nil
	}
	return s.forward(ctx, "desktop.arrange", map[string]interface{}{"mode": mode})
}

func (s *mcpServer) handleBulkAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := stringArg(request.GetArguments(), "action")
	method, ok := bulkMethods[action]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown bulk action %q", action)), nil
	}
	return s.forward(ctx, method, nil)
}

func (s *mcpServer) handleReopen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if stringArg(args, "id") == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	return s.forward(ctx, "closed.reopen", pick(args, "id"))
}

func (s *mcpServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.forward(ctx, "launcher.search", map[string]interface{}{"query": stringArg(request.GetArguments(), "query")})
}

var mcpCfg MCPConfig

// mcpCmd serves the desk tools over MCP
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve desk tools to MCP clients",
	Long: `Starts a Model Context Protocol server whose tools drive the running desk
server: list, open, move, resize, arrange and reopen windows.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()
		if err := c.Connect(); err != nil {
			return fmt.Errorf("desk server not reachable: %w", err)
		}
		return newMCPServer(c).serve(mcpCfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpCfg.Transport, "transport", "stdio", "Transport: stdio or streamable-http")
	mcpCmd.Flags().IntVar(&mcpCfg.Port, "port", 8765, "Port for streamable-http")
}
