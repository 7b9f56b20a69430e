package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"tespkg.in/kit/log"
)

const (
	// HTTPAddrEnvName defines an environment variable name which sets
	// the store address if there is no address specified.
	HTTPAddrEnvName = "SLED_HTTP_ADDR"
)

// Config is used to configure the creation of a client
type Config struct {
	// Address is the address of the store, optionally with a scheme
	// and a path prefix, e.g, http://localhost:3030/kv
	Address string

	// Scheme is the URI scheme for the store
	Scheme string

	// HttpClient is the client to use. Default will be
	// used if not provided.
	HttpClient *http.Client
}

// defaultConfig returns the default configuration for the client.
func defaultConfig() *Config {
	config := &Config{
		Address: "127.0.0.1:3030",
		Scheme:  "http",
	}

	if addr := os.Getenv(HTTPAddrEnvName); addr != "" {
		config.Address = addr
	}

	return config
}

// Client provides a client to the store APIs. It is safe for concurrent use,
// all calls share the underlying http.Client.
type Client struct {
	config Config

	// base path prefix taken from the address, without trailing slash.
	basePath string
}

// New returns a client bound to the given base URL, e.g, http://localhost:3030
func New(baseURL string) (*Client, error) {
	return NewClient(&Config{Address: baseURL})
}

// NewClient returns a new client
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	// bootstrap the config
	defConfig := defaultConfig()

	if len(config.Address) == 0 {
		config.Address = defConfig.Address
	}

	if len(config.Scheme) == 0 {
		config.Scheme = defConfig.Scheme
	}

	if config.HttpClient == nil {
		config.HttpClient = &http.Client{}
	}

	parts := strings.SplitN(config.Address, "://", 2)
	if len(parts) == 2 {
		switch parts[0] {
		case "http":
			config.Scheme = "http"
		case "https":
			config.Scheme = "https"
		default:
			return nil, fmt.Errorf("unknown protocol scheme: %s", parts[0])
		}
		config.Address = parts[1]
	}

	var basePath string
	if idx := strings.Index(config.Address, "/"); idx >= 0 {
		basePath = strings.TrimRight(config.Address[idx:], "/")
		config.Address = config.Address[:idx]
	}
	if config.Address == "" {
		return nil, fmt.Errorf("empty host in store address")
	}

	return &Client{config: *config, basePath: basePath}, nil
}

// Address returns the store base URL the client talks to.
func (c *Client) Address() string {
	return c.config.Scheme + "://" + c.config.Address + c.basePath
}

// request is used to help build up a request
type request struct {
	method string
	url    *url.URL
	body   io.Reader
	header http.Header
	obj    interface{}
	ctx    context.Context
}

// encodeBody is used to encode a request body
func encodeBody(obj interface{}) (io.Reader, error) {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return buf, nil
}

// toHTTP converts the request to an HTTP request
func (r *request) toHTTP() (*http.Request, error) {
	// Check if we should encode the body
	if r.body == nil && r.obj != nil {
		b, err := encodeBody(r.obj)
		if err != nil {
			return nil, err
		}
		r.body = b
		r.header.Set("Content-Type", "application/json")
	}

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), r.body)
	if err != nil {
		return nil, err
	}
	req.Header = r.header

	return req, nil
}

// newRequest is used to create a new request, segments are escaped one by
// one so a tree or key may carry any character, slashes included.
func (c *Client) newRequest(ctx context.Context, method string, segments ...string) *request {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	rawPath := c.basePath + "/" + strings.Join(escaped, "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		path = rawPath
	}
	return &request{
		method: method,
		url: &url.URL{
			Scheme:  c.config.Scheme,
			Host:    c.config.Address,
			Path:    path,
			RawPath: rawPath,
		},
		header: make(http.Header),
		ctx:    ctx,
	}
}

// doRequest runs a request with our client
func (c *Client) doRequest(r *request) (time.Duration, *http.Response, error) {
	req, err := r.toHTTP()
	if err != nil {
		return 0, nil, err
	}
	start := time.Now()
	resp, err := c.config.HttpClient.Do(req)
	diff := time.Since(start)
	if err != nil {
		log.Debugf("%s %s failed after %v: %v", r.method, req.URL.Redacted(), diff, err)
		return diff, nil, err
	}
	log.Debugf("%s %s %d in %v", r.method, req.URL.Redacted(), resp.StatusCode, diff)
	return diff, resp, nil
}

// exchange performs the request and returns the status code with the full
// body text, the body is always drained and closed.
func (c *Client) exchange(r *request) (int, string, error) {
	_, resp, err := c.doRequest(r)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	bs, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(bs), nil
}

// text performs the request and returns the unquoted body on a success
// status, a RemoteError otherwise.
func (c *Client) text(r *request) (string, error) {
	code, body, err := c.exchange(r)
	if err != nil {
		return "", err
	}
	if !isSuccess(code) {
		return "", &RemoteError{StatusCode: code, Body: body}
	}
	return StripQuotes(body), nil
}

// lookup performs the request and maps 404 to not found.
func (c *Client) lookup(r *request) (string, bool, error) {
	code, body, err := c.exchange(r)
	if err != nil {
		return "", false, err
	}
	switch {
	case code == http.StatusNotFound:
		return "", false, nil
	case isSuccess(code):
		return StripQuotes(body), true, nil
	default:
		return "", false, &RemoteError{StatusCode: code, Body: body}
	}
}

// stringList performs the request and decodes a JSON array of strings.
func (c *Client) stringList(r *request) ([]string, error) {
	code, body, err := c.exchange(r)
	if err != nil {
		return nil, err
	}
	if !isSuccess(code) {
		return nil, &RemoteError{StatusCode: code, Body: body}
	}
	var out []string
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// StripQuotes removes at most one leading and one trailing double quote.
// The server answers with either raw text or a JSON encoded string, this is
// a textual trim only, escapes inside the value are kept as they are.
func StripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
