package consul

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/hashicorp/consul/api"
	"tespkg.in/sledkv/pkg/store"
)

const (
	treePrefix = "tree-"

	stringFlag uint64 = 0x1
)

type cs struct {
	prefix string

	client *api.Client
}

func (c *cs) Set(key store.Key, val string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	p := &api.KVPair{
		Key:   parseKey(c.prefix, key),
		Flags: stringFlag,
		Value: []byte(val),
	}
	if _, err := c.client.KV().Put(p, nil); err != nil {
		return err
	}

	return nil
}

func (c *cs) Get(key store.Key) (string, error) {
	pair, _, err := c.client.KV().Get(parseKey(c.prefix, key), nil)
	if err != nil {
		return "", err
	}
	if pair == nil {
		return "", store.ErrNotFound
	}

	return fromKVPair(pair)
}

func (c *cs) GetTreeValues(tree string) (store.KeyVals, error) {
	if tree == "" {
		return nil, store.ErrEmptyKey
	}

	pairs, _, err := c.client.KV().List(joinKey(c.prefix, treeSegment(tree))+"/", nil)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, store.ErrNotFound
	}
	var kvals store.KeyVals
	for _, p := range pairs {
		key, err := extractKey(c.prefix, p.Key)
		if err != nil {
			return nil, err
		}
		val, err := fromKVPair(p)
		if err != nil {
			return nil, err
		}
		kvals = append(kvals, store.KeyVal{
			Key:   key,
			Value: val,
		})
	}
	return kvals, nil
}

func (c *cs) Trees() ([]string, error) {
	base := joinKey(c.prefix)
	if base != "" {
		base += "/"
	}
	keys, _, err := c.client.KV().Keys(base, "/", nil)
	if err != nil {
		return nil, err
	}
	var trees []string
	for _, k := range keys {
		name := strings.TrimSuffix(strings.TrimPrefix(k, base), "/")
		if !strings.HasPrefix(name, treePrefix) {
			continue
		}
		tree, err := url.PathUnescape(strings.TrimPrefix(name, treePrefix))
		if err != nil {
			return nil, fmt.Errorf("got invalid tree: %v", name)
		}
		trees = append(trees, tree)
	}
	sort.Strings(trees)
	return trees, nil
}

func (c *cs) Delete(key store.Key) error {
	raw := parseKey(c.prefix, key)
	pair, _, err := c.client.KV().Get(raw, nil)
	if err != nil {
		return err
	}
	if pair == nil {
		return store.ErrNotFound
	}
	_, err = c.client.KV().Delete(raw, nil)
	return err
}

func (c *cs) Close() error { return nil }

func fromKVPair(p *api.KVPair) (string, error) {
	switch p.Flags {
	case stringFlag:
		return string(p.Value), nil
	default:
		return "", fmt.Errorf("%w %0x %s", store.ErrUnsupportedValueType, p.Flags, p.Key)
	}
}

func parseKey(prefix string, key store.Key) string {
	return joinKey(prefix, treeSegment(key.Tree), key.Name)
}

// treeSegment escapes the tree so it always stays a single key segment.
func treeSegment(tree string) string {
	return addPrefix(treePrefix, url.PathEscape(tree))
}

func joinKey(parts ...string) string {
	var keys []string
	for _, p := range parts {
		if p != "" {
			keys = append(keys, p)
		}
	}
	return strings.Join(keys, "/")
}

func extractKey(prefix, key string) (store.Key, error) {
	newKey := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
	parts := strings.SplitN(newKey, "/", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], treePrefix) {
		return store.Key{}, fmt.Errorf("got invalid key: %v", key)
	}
	tree, err := url.PathUnescape(strings.TrimPrefix(parts[0], treePrefix))
	if err != nil {
		return store.Key{}, fmt.Errorf("got invalid key: %v", key)
	}
	return store.Key{
		Tree: tree,
		Name: parts[1],
	}, nil
}

func addPrefix(prefix, s string) string {
	return prefix + s
}

// NewStore connects to consul, e.g for dsn: http://localhost:8500/prefix/for/key
func NewStore(dsn string) (store.Store, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(&api.Config{
		Address: u.Host,
		Scheme:  u.Scheme,
	})
	if err != nil {
		return nil, err
	}

	prefix := strings.Trim(u.Path, "/")
	return &cs{
		client: client,
		prefix: prefix,
	}, nil
}
