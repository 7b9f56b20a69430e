// Package backends opens a snapshot store.Store from its data source name.
package backends

import (
	"fmt"
	"net/url"
	"strings"

	"tespkg.in/sledkv/pkg/store"
	"tespkg.in/sledkv/pkg/store/consul"
	"tespkg.in/sledkv/pkg/store/etcd"
	"tespkg.in/sledkv/pkg/store/file"
	"tespkg.in/sledkv/pkg/store/redis"
	"tespkg.in/sledkv/pkg/store/sqlite"
)

// Open chooses the backend by the dsn schema:
//
//	http(s)://localhost:8500/prefix    consul
//	etcd://localhost:2379/prefix       etcd
//	redis://localhost:6379/0?prefix=p  redis
//	sqlite:///path/to/snapshot.db      sqlite
//	file:///path/to/snapshot.yaml      yaml file
func Open(dsn string) (store.Store, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid store dsn: %v", dsn)
	}
	var s store.Store
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		s, err = consul.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("initiate consul store failed: %w", err)
		}
	case "etcd":
		s, err = etcd.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("initiate etcd store failed: %w", err)
		}
	case "redis", "rediss":
		s, err = redis.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("initiate redis store failed: %w", err)
		}
	case "sqlite":
		s, err = sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("initiate sqlite store failed: %w", err)
		}
	case "file":
		s, err = file.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("initiate file store failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown store schema: %v", u.Scheme)
	}
	return s, nil
}
