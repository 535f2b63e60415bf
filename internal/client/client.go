package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/webdesk/internal/models"
)

const (
	DefaultSocketPath = "/tmp/webdesk.sock"
	DefaultTimeout    = 30 * time.Second
)

// Client talks to a desk server. Requests are serialized over one
// connection.
type Client struct {
	mu   sync.Mutex
	conn *Connection
}

// NewClient creates a new desk client
func NewClient(socketPath string, timeout time.Duration) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		conn: NewConnection(socketPath, timeout),
	}
}

// Connect establishes connection to the server
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Connect()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// request is a helper to send a request and get the response
func (c *Client) request(ctx context.Context, method string, params map[string]interface{}) (*models.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.conn.IsConnected() {
		if err := c.conn.Connect(); err != nil {
			return nil, err
		}
	}

	req := models.NewRequest(uuid.New().String(), method, params)
	return c.conn.SendRequest(ctx, req)
}

// ServerError is a failed response from the server
type ServerError struct {
	Method  string
	Code    int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}

// CallMethod sends a generic RPC request with the given method and parameters
func (c *Client) CallMethod(ctx context.Context, method string, params map[string]interface{}) (map[string]interface{}, error) {
	resp, err := c.request(ctx, method, params)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, &ServerError{Method: method, Code: resp.Error.Code, Message: resp.GetError()}
	}

	return resp.Result, nil
}

// Ping sends a ping request to test connectivity
func (c *Client) Ping(ctx context.Context) (map[string]interface{}, error) {
	return c.CallMethod(ctx, "ping", nil)
}

// Dump retrieves the complete desktop state
func (c *Client) Dump(ctx context.Context) (*models.State, error) {
	result, err := c.CallMethod(ctx, "dump", map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	return models.ParseState(result)
}

// WindowAction runs a window.<action> method against one window
func (c *Client) WindowAction(ctx context.Context, action, id string, extra map[string]interface{}) (*models.Window, error) {
	params := map[string]interface{}{"id": id}
	for k, v := range extra {
		params[k] = v
	}

	result, err := c.CallMethod(ctx, "window."+action, params)
	if err != nil {
		return nil, err
	}
	return DecodeWindow(result)
}

// DecodeWindow extracts the "window" object of a window operation result
func DecodeWindow(result map[string]interface{}) (*models.Window, error) {
	raw, ok := result["window"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("response has no window")
	}
	var w models.Window
	if err := models.FromMap(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// OpenApp opens a registered app
func (c *Client) OpenApp(ctx context.Context, appID string, params map[string]interface{}) (*models.Window, error) {
	p := map[string]interface{}{"app": appID}
	for k, v := range params {
		p[k] = v
	}
	result, err := c.CallMethod(ctx, "app.open", p)
	if err != nil {
		return nil, err
	}
	return DecodeWindow(result)
}

// Subscribe asks the server for events and calls fn for each one until
// ctx is cancelled or the connection drops. Use a dedicated client: the
// connection carries only events afterwards.
func (c *Client) Subscribe(ctx context.Context, fn func(*models.Event)) error {
	resp, err := c.request(ctx, "subscribe", nil)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &ServerError{Method: "subscribe", Code: resp.Error.Code, Message: resp.GetError()}
	}
	return c.conn.ReadEvents(ctx, fn)
}
