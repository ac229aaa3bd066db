package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

var requestID uint64

// ClientRequest represents a JSON-RPC request
type ClientRequest struct {
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      uint64      `json:"id"`
	Version string      `json:"jsonrpc"`
}

// ClientResponse represents a JSON-RPC response
type ClientResponse struct {
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
	ID      uint64          `json:"id"`
	Version string          `json:"jsonrpc"`
}

// Error represents a JSON-RPC error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: code %d message: %s", e.Code, e.Message)
}

// EncodeClientRequest encodes a JSON-RPC client request. Nil params are
// sent as an empty array, which node endpoints expect.
func EncodeClientRequest(method string, args interface{}) ([]byte, error) {
	if args == nil {
		args = []interface{}{}
	}
	id := atomic.AddUint64(&requestID, 1)
	req := &ClientRequest{
		Method:  method,
		Params:  args,
		ID:      id,
		Version: "2.0",
	}
	return json.Marshal(req)
}

// DecodeClientResponse decodes a JSON-RPC response
func DecodeClientResponse(r io.Reader, reply interface{}) error {
	var resp ClientResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return fmt.Errorf("jsonrpc: failed to decode response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if reply != nil && len(resp.Result) > 0 {
		return json.Unmarshal(resp.Result, reply)
	}

	return nil
}

// Client posts JSON-RPC requests to one HTTP endpoint
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient}
}

// Call invokes method and decodes the result into reply
func (c *Client) Call(ctx context.Context, method string, args, reply interface{}) error {
	body, err := EncodeClientRequest(method, args)
	if err != nil {
		return fmt.Errorf("jsonrpc: encoding %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("jsonrpc: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jsonrpc: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jsonrpc: %s: unexpected status %s", method, resp.Status)
	}
	return DecodeClientResponse(resp.Body, reply)
}
