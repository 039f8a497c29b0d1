package postgrest

import (
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"

	"github.com/edgeflare/pgrst/pkg/transport"
)

// ClientOptions configures a Client. A nil pointer means defaults:
// public schema, JSON content negotiation, no auth, no retry.
type ClientOptions struct {
	// Schema selects the PostgreSQL schema via the Accept-Profile and
	// Content-Profile headers. Defaults to "public".
	Schema string
	// Headers are extra default headers sent with every request.
	Headers map[string]string
	// Transport tunes the HTTP layer; BaseURL and Headers set here are
	// overridden by the client.
	Transport *transport.Config
	// Logger enables transport logging.
	Logger *zap.Logger
}

// Client is the top-level PostgREST client. Construct once and share;
// the builders it hands out are single-use and not synchronized.
type Client struct {
	transport *transport.Client
}

// NewClient builds a client for the PostgREST server at baseURL.
func NewClient(baseURL string, opts *ClientOptions) *Client {
	if opts == nil {
		opts = &ClientOptions{}
	}
	schema := opts.Schema
	if schema == "" {
		schema = "public"
	}

	cfg := transport.Config{}
	if opts.Transport != nil {
		cfg = *opts.Transport
	}
	cfg.BaseURL = baseURL
	if cfg.Logger == nil {
		cfg.Logger = opts.Logger
	}

	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept-Profile", schema)
	headers.Set("Content-Profile", schema)
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	cfg.Headers = headers

	return &Client{transport: transport.New(cfg)}
}

// Schema switches subsequent requests to another PostgreSQL schema.
func (c *Client) Schema(name string) *Client {
	c.transport.SetHeader("Accept-Profile", name)
	c.transport.SetHeader("Content-Profile", name)
	return c
}

// TokenAuth authenticates subsequent requests with a bearer token.
func (c *Client) TokenAuth(token string) *Client {
	c.transport.SetHeader("Authorization", "Bearer "+token)
	return c
}

// BasicAuth authenticates subsequent requests with HTTP basic auth.
func (c *Client) BasicAuth(username, password string) *Client {
	cred := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	c.transport.SetHeader("Authorization", "Basic "+cred)
	return c
}

// From returns a query builder for the given table or view.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{transport: c.transport, path: table}
}

// Rpc calls a stored procedure with the given params as the POST body.
// Filters on the returned chain apply to the function's result set.
func (c *Client) Rpc(fn string, params any) *FilterBuilder {
	req := newPendingRequest(http.MethodPost)
	req.path = "rpc/" + fn
	req.body = params
	return &FilterBuilder{Builder: Builder{transport: c.transport, req: req}}
}
