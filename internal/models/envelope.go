package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope types
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeEvent    = "event"
)

// Error codes carried in ErrorInfo
const (
	CodeInvalidRequest = 400
	CodeNotFound       = 404
	CodeUnknownMethod  = 405
	CodeInternal       = 500
	CodeUnavailable    = 503
)

// MessageEnvelope is the top-level message structure for all communications
type MessageEnvelope struct {
	Type     string    `json:"type"` // "request", "response", or "event"
	Request  *Request  `json:"request,omitempty"`
	Response *Response `json:"response,omitempty"`
	Event    *Event    `json:"event,omitempty"`
}

// Request represents an RPC request
type Request struct {
	ID     string                 `json:"id"`
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

// Response represents an RPC response
type Response struct {
	ID     string                 `json:"id"`
	Result map[string]interface{} `json:"result,omitempty"`
	Error  *ErrorInfo             `json:"error,omitempty"`
}

// ErrorInfo represents an error in a response
type ErrorInfo struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Event represents an asynchronous event pushed to subscribers
type Event struct {
	EventType string                 `json:"eventType"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewRequest creates a new request envelope
func NewRequest(id, method string, params map[string]interface{}) *MessageEnvelope {
	return &MessageEnvelope{
		Type: TypeRequest,
		Request: &Request{
			ID:     id,
			Method: method,
			Params: params,
		},
	}
}

// NewResponse creates a successful response envelope
func NewResponse(id string, result map[string]interface{}) *MessageEnvelope {
	return &MessageEnvelope{
		Type:     TypeResponse,
		Response: &Response{ID: id, Result: result},
	}
}

// NewErrorResponse creates a failed response envelope
func NewErrorResponse(id string, code int, message string) *MessageEnvelope {
	return &MessageEnvelope{
		Type: TypeResponse,
		Response: &Response{
			ID:    id,
			Error: &ErrorInfo{Code: code, Message: message},
		},
	}
}

// NewEvent creates an event envelope
func NewEvent(eventType string, data map[string]interface{}, at time.Time) *MessageEnvelope {
	return &MessageEnvelope{
		Type:  TypeEvent,
		Event: &Event{EventType: eventType, Data: data, Timestamp: at},
	}
}

// IsError returns true if the response contains an error
func (r *Response) IsError() bool {
	return r.Error != nil
}

// GetError returns the error message if present
func (r *Response) GetError() string {
	if r.Error != nil {
		return r.Error.Message
	}
	return ""
}

// String returns the named parameter, or "" when absent or not a string
func (r *Request) String(key string) string {
	s, _ := r.Params[key].(string)
	return s
}

// Float returns the named numeric parameter
func (r *Request) Float(key string) (float64, bool) {
	switch v := r.Params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// RequireString returns the named parameter or an error when it is empty
func (r *Request) RequireString(key string) (string, error) {
	s := r.String(key)
	if s == "" {
		return "", fmt.Errorf("missing parameter %q", key)
	}
	return s, nil
}

// ToMap converts any JSON-encodable value into a result map
func ToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return out, nil
}

// FromMap decodes a result map into v
func FromMap(m map[string]interface{}, v interface{}) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}
