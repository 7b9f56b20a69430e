package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"tespkg.in/sledkv/pkg/store"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPrefix  = "sled"
	scanCount      = 100
)

// rs keeps every tree in its own redis hash, named <prefix>:<tree>.
type rs struct {
	prefix string

	db *goredis.Client
}

func (s *rs) Set(key store.Key, val string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return s.db.HSet(ctx, s.hashKey(key.Tree), key.Name, val).Err()
}

func (s *rs) Get(key store.Key) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	val, err := s.db.HGet(ctx, s.hashKey(key.Tree), key.Name).Result()
	if errors.Is(err, goredis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *rs) GetTreeValues(tree string) (store.KeyVals, error) {
	if tree == "" {
		return nil, store.ErrEmptyKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	fields, err := s.db.HGetAll(ctx, s.hashKey(tree)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}
	kvals := make(store.KeyVals, 0, len(fields))
	for name, val := range fields {
		kvals = append(kvals, store.KeyVal{
			Key:   store.Key{Tree: tree, Name: name},
			Value: val,
		})
	}
	sort.Slice(kvals, func(i, j int) bool { return kvals[i].Name < kvals[j].Name })
	return kvals, nil
}

func (s *rs) Trees() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var (
		trees  []string
		cursor uint64
	)
	match := escapeGlob(s.prefix) + ":*"
	for {
		keys, next, err := s.db.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			trees = append(trees, strings.TrimPrefix(k, s.prefix+":"))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(trees)
	return trees, nil
}

func (s *rs) Delete(key store.Key) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	n, err := s.db.HDel(ctx, s.hashKey(key.Tree), key.Name).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *rs) Close() error {
	return s.db.Close()
}

func (s *rs) hashKey(tree string) string {
	return s.prefix + ":" + tree
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the glob metacharacters of a SCAN MATCH pattern.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

// NewStore connects to redis, e.g for dsn: redis://:password@localhost:6379/0?prefix=sled
// The prefix query parameter is consumed here, the rest is handed to redis.
func NewStore(dsn string) (store.Store, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	prefix := q.Get("prefix")
	if prefix == "" {
		prefix = defaultPrefix
	}
	// the first ':' of a hash name separates the prefix from the tree
	if strings.Contains(prefix, ":") {
		return nil, fmt.Errorf("invalid prefix %q, ':' is not allowed", prefix)
	}
	q.Del("prefix")
	u.RawQuery = q.Encode()

	opts, err := goredis.ParseURL(u.String())
	if err != nil {
		return nil, err
	}
	return &rs{
		prefix: prefix,
		db:     goredis.NewClient(opts),
	}, nil
}
