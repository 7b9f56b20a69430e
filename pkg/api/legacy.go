package api

import (
	"context"
	"net/http"
)

const healthyBody = "OK"

// Insert stores value under key in the default namespace.
func (c *Client) Insert(ctx context.Context, key, value string) (string, error) {
	r := c.newRequest(ctx, http.MethodPost, "insert")
	r.obj = KeyValue{
		Key:   key,
		Value: value,
	}
	return c.text(r)
}

// Get fetches key from the default namespace, found is false when the
// store answers 404.
func (c *Client) Get(ctx context.Context, key string) (value string, found bool, err error) {
	return c.lookup(c.newRequest(ctx, http.MethodGet, "get", key))
}

// HealthCheck reports whether the store answers its health endpoint with
// OK. A non-2xx status is reported as unhealthy rather than as an error,
// only transport failures are returned.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	code, body, err := c.exchange(c.newRequest(ctx, http.MethodGet, "health"))
	if err != nil {
		return false, err
	}
	if !isSuccess(code) {
		return false, nil
	}
	return StripQuotes(body) == healthyBody, nil
}
