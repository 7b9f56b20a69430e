package api

import (
	"context"
	"net/http"
)

// TreeInsert stores value under key in the given tree and returns the
// server acknowledgement.
func (c *Client) TreeInsert(ctx context.Context, tree, key, value string) (string, error) {
	r := c.newRequest(ctx, http.MethodPost, "tree", "insert")
	r.obj = TreeOperation{
		Tree:  tree,
		Key:   key,
		Value: &value,
	}
	return c.text(r)
}

// TreeGet fetches the value of key in tree, found is false when the store
// answers 404.
func (c *Client) TreeGet(ctx context.Context, tree, key string) (value string, found bool, err error) {
	return c.lookup(c.newRequest(ctx, http.MethodGet, "tree", "get", tree, key))
}

// TreeDelete removes key from tree and returns the server acknowledgement.
func (c *Client) TreeDelete(ctx context.Context, tree, key string) (string, error) {
	return c.text(c.newRequest(ctx, http.MethodDelete, "tree", "delete", tree, key))
}

// TreeListKeys lists the keys of tree, order is up to the server.
func (c *Client) TreeListKeys(ctx context.Context, tree string) ([]string, error) {
	return c.stringList(c.newRequest(ctx, http.MethodGet, "tree", "list", tree))
}

// ListAllTrees lists the tree names known by the store.
func (c *Client) ListAllTrees(ctx context.Context) ([]string, error) {
	return c.stringList(c.newRequest(ctx, http.MethodGet, "trees"))
}
