package main

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeCaller struct {
	method string
	params map[string]interface{}
	result map[string]interface{}
	err    error
}

func (f *fakeCaller) CallMethod(_ context.Context, method string, params map[string]interface{}) (map[string]interface{}, error) {
	f.method, f.params = method, params
	return f.result, f.err
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("result has no text content: %+v", res)
	return ""
}

func TestMCPToolsForwardToMethods(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(*mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args       map[string]interface{}
		wantMethod string
		wantParams map[string]interface{}
	}{
		{
			name:       "list windows",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleListWindows },
			wantMethod: "windows.list",
		},
		{
			name:       "open app drops unknown args",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleOpenApp },
			args:       map[string]interface{}{"app": "docs", "width": 800.0, "bogus": true},
			wantMethod: "app.open",
			wantParams: map[string]interface{}{"app": "docs", "width": 800.0},
		},
		{
			name:       "move",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleWindowAction },
			args:       map[string]interface{}{"id": "a", "action": "move", "x": 10.0, "y": 20.0, "title": "ignored"},
			wantMethod: "window.move",
			wantParams: map[string]interface{}{"id": "a", "x": 10.0, "y": 20.0},
		},
		{
			name:       "minimize",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleWindowAction },
			args:       map[string]interface{}{"id": "a", "action": "minimize"},
			wantMethod: "window.minimize",
			wantParams: map[string]interface{}{"id": "a"},
		},
		{
			name:       "arrange prefers layout",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleArrange },
			args:       map[string]interface{}{"mode": "tile", "layout": "split"},
			wantMethod: "desktop.layout",
			wantParams: map[string]interface{}{"layout": "split"},
		},
		{
			name:       "arrange mode",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleArrange },
			args:       map[string]interface{}{"mode": "cascade"},
			wantMethod: "desktop.arrange",
			wantParams: map[string]interface{}{"mode": "cascade"},
		},
		{
			name:       "bulk",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleBulkAction },
			args:       map[string]interface{}{"action": "close_all"},
			wantMethod: "desktop.closeAll",
		},
		{
			name:       "search",
			handler:    func(s *mcpServer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) { return s.handleSearch },
			args:       map[string]interface{}{"query": "doc"},
			wantMethod: "launcher.search",
			wantParams: map[string]interface{}{"query": "doc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCaller{result: map[string]interface{}{"ok": true}}
			s := newMCPServer(fake)

			res, err := tt.handler(s)(context.Background(), toolRequest(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if res.IsError {
				t.Fatalf("tool failed: %s", resultText(t, res))
			}
			if fake.method != tt.wantMethod {
				t.Errorf("method = %q, want %q", fake.method, tt.wantMethod)
			}
			if len(tt.wantParams) > 0 && !reflect.DeepEqual(fake.params, tt.wantParams) {
				t.Errorf("params = %v, want %v", fake.params, tt.wantParams)
			}
			if got := resultText(t, res); !strings.Contains(got, "ok: true") {
				t.Errorf("text = %q, want YAML result", got)
			}
		})
	}
}

func TestMCPToolErrors(t *testing.T) {
	fake := &fakeCaller{}
	s := newMCPServer(fake)
	ctx := context.Background()

	for name, run := range map[string]func() (*mcp.CallToolResult, error){
		"unknown action": func() (*mcp.CallToolResult, error) {
			return s.handleWindowAction(ctx, toolRequest(map[string]interface{}{"id": "a", "action": "explode"}))
		},
		"missing id": func() (*mcp.CallToolResult, error) {
			return s.handleWindowAction(ctx, toolRequest(map[string]interface{}{"action": "focus"}))
		},
		"missing app": func() (*mcp.CallToolResult, error) {
			return s.handleOpenApp(ctx, toolRequest(nil))
		},
		"unknown bulk": func() (*mcp.CallToolResult, error) {
			return s.handleBulkAction(ctx, toolRequest(map[string]interface{}{"action": "shuffle"}))
		},
		"arrange without args": func() (*mcp.CallToolResult, error) {
			return s.handleArrange(ctx, toolRequest(nil))
		},
	} {
		t.Run(name, func(t *testing.T) {
			fake.method = ""
			res, err := run()
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !res.IsError {
				t.Error("want a tool error")
			}
			if fake.method != "" {
				t.Errorf("server called with %s", fake.method)
			}
		})
	}
}

func TestMCPServerErrorBecomesToolError(t *testing.T) {
	fake := &fakeCaller{err: errors.New("server error: window not found: ghost")}
	s := newMCPServer(fake)

	res, err := s.handleReopen(context.Background(), toolRequest(map[string]interface{}{"id": "ghost"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "window not found") {
		t.Errorf("result = %+v, want the server error", res)
	}
}
