// Package gateway is a client for the REST gateway of the storage platform.
//
// All objects are addressed by their kind, for example FaultSet, and their
// id. The client logs in once with basic auth and uses the returned token
// for every following request.
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/func/flexconf/resource"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HTTPClient is the client to use for communication.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout is the request timeout of clients created with
// NewHTTPClient when no timeout is given.
const DefaultTimeout = 2 * time.Minute

// NewHTTPClient creates a http client with a fixed timeout. If insecure is
// set, the gateway certificate is not verified.
func NewHTTPClient(insecure bool, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: insecure, // nolint: gosec
			},
		},
		Timeout: timeout,
	}
}

// A Client sends requests to a gateway.
//
// A Client is used by a single invocation and is not safe for concurrent
// use.
type Client struct {
	Endpoint   string
	Username   string
	Password   string
	HTTPClient HTTPClient

	// Logger logs requests at debug level. If not set, logs are discarded.
	Logger *zap.Logger

	token string
}

var _ resource.Client = (*Client)(nil)

func (c *Client) httpClient() HTTPClient {
	cli := c.HTTPClient
	if cli == nil {
		cli = http.DefaultClient
	}
	return cli
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Login authenticates with the gateway. It is called implicitly by the
// first request; the token is kept for the lifetime of the client.
func (c *Client) Login(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("username and password must be set")
	}
	var token string
	if err := c.do(ctx, http.MethodGet, "/api/login", c.Password, nil, &token); err != nil {
		return errors.Wrap(err, "login")
	}
	if token == "" {
		return errors.New("login: empty token")
	}
	c.token = token
	return nil
}

// List returns all instances of a kind.
func (c *Client) List(ctx context.Context, kind string) ([]resource.Snapshot, error) {
	var list []resource.Snapshot
	if err := c.request(ctx, http.MethodGet, typePath(kind), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns a single instance. Returns false if it does not exist.
func (c *Client) Get(ctx context.Context, kind, id string) (resource.Snapshot, bool, error) {
	var snap resource.Snapshot
	err := c.request(ctx, http.MethodGet, instancePath(kind, id), nil, &snap)
	if IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Create creates an instance and returns its id.
func (c *Client) Create(ctx context.Context, kind string, attrs map[string]interface{}) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.request(ctx, http.MethodPost, typePath(kind), attrs, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.Errorf("create %s: no id in response", kind)
	}
	return resp.ID, nil
}

// Action invokes an action on an instance.
func (c *Client) Action(ctx context.Context, kind, id, action string, attrs map[string]interface{}) error {
	if attrs == nil {
		// The gateway rejects actions without a body.
		attrs = map[string]interface{}{}
	}
	return c.request(ctx, http.MethodPost, instancePath(kind, id)+"/action/"+action, attrs, nil)
}

// Version returns the version reported by the gateway.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v string
	if err := c.request(ctx, http.MethodGet, "/api/version", nil, &v); err != nil {
		return "", err
	}
	return v, nil
}

func (c *Client) request(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.Login(ctx); err != nil {
		return err
	}
	return c.do(ctx, method, path, c.token, in, out)
}

func (c *Client) do(ctx context.Context, method, path, secret string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = &buf
	}

	u := strings.TrimSuffix(c.Endpoint, "/") + path
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req = req.WithContext(ctx)
	req.SetBasicAuth(c.Username, secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	data, err := ioutil.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "read body")
	}

	c.logger().Debug("Gateway request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return newError(resp, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func typePath(kind string) string {
	return fmt.Sprintf("/api/types/%s/instances", url.PathEscape(kind))
}

func instancePath(kind, id string) string {
	return fmt.Sprintf("/api/instances/%s::%s", url.PathEscape(kind), url.PathEscape(id))
}
