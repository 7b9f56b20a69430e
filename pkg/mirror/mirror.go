// Package mirror copies trees between the remote store and a snapshot store.
package mirror

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"tespkg.in/kit/log"
	"tespkg.in/sledkv/pkg/store"
)

//go:generate mockgen -source=mirror.go -destination=mock_mirror.go -package=mirror

// Remote is the part of the store client used for mirroring, *api.Client
// satisfies it.
type Remote interface {
	TreeInsert(ctx context.Context, tree, key, value string) (string, error)
	TreeGet(ctx context.Context, tree, key string) (string, bool, error)
	TreeListKeys(ctx context.Context, tree string) ([]string, error)
	ListAllTrees(ctx context.Context) ([]string, error)
}

type Options struct {
	// Trees limits the copy to the given trees, all trees when empty.
	Trees []string
	// Limiter paces remote calls, unlimited when nil.
	Limiter *rate.Limiter
	// DryRun walks the source without writing to the destination.
	DryRun bool
}

type Stats struct {
	Trees   int
	Keys    int
	Skipped int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d trees, %d keys, %d skipped", s.Trees, s.Keys, s.Skipped)
}

// Import copies the trees of src into the remote store.
func Import(ctx context.Context, src store.Store, dst Remote, opts Options) (Stats, error) {
	var stats Stats
	trees := opts.Trees
	if len(trees) == 0 {
		var err error
		if trees, err = src.Trees(); err != nil {
			return stats, fmt.Errorf("list snapshot trees failed: %w", err)
		}
	}

	for _, tree := range trees {
		kvals, err := src.GetTreeValues(tree)
		if errors.Is(err, store.ErrNotFound) {
			log.Warnf("Tree %v not found in snapshot, skipped", tree)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read snapshot tree %v failed: %w", tree, err)
		}
		stats.Trees++
		for _, kv := range kvals {
			if err := wait(ctx, opts.Limiter); err != nil {
				return stats, err
			}
			if !opts.DryRun {
				if _, err := dst.TreeInsert(ctx, kv.Tree, kv.Name, kv.Value); err != nil {
					return stats, fmt.Errorf("insert %v failed: %w", kv.Key, err)
				}
			}
			stats.Keys++
		}
		log.Debugf("Imported tree %v with %v keys", tree, len(kvals))
	}

	log.Infof("Import done, %v, dry run: %v", stats, opts.DryRun)
	return stats, nil
}

// Export copies remote trees into dst. Keys removed between listing and
// reading are counted as skipped.
func Export(ctx context.Context, src Remote, dst store.Store, opts Options) (Stats, error) {
	var stats Stats
	trees := opts.Trees
	if len(trees) == 0 {
		if err := wait(ctx, opts.Limiter); err != nil {
			return stats, err
		}
		var err error
		if trees, err = src.ListAllTrees(ctx); err != nil {
			return stats, fmt.Errorf("list remote trees failed: %w", err)
		}
	}

	for _, tree := range trees {
		if err := wait(ctx, opts.Limiter); err != nil {
			return stats, err
		}
		keys, err := src.TreeListKeys(ctx, tree)
		if err != nil {
			return stats, fmt.Errorf("list keys of tree %v failed: %w", tree, err)
		}
		stats.Trees++
		for _, key := range keys {
			if err := wait(ctx, opts.Limiter); err != nil {
				return stats, err
			}
			val, found, err := src.TreeGet(ctx, tree, key)
			if err != nil {
				return stats, fmt.Errorf("get %v/%v failed: %w", tree, key, err)
			}
			if !found {
				log.Debugf("Key %v/%v vanished, skipped", tree, key)
				stats.Skipped++
				continue
			}
			if !opts.DryRun {
				if err := dst.Set(store.Key{Tree: tree, Name: key}, val); err != nil {
					return stats, fmt.Errorf("set %v/%v failed: %w", tree, key, err)
				}
			}
			stats.Keys++
		}
	}

	log.Infof("Export done, %v, dry run: %v", stats, opts.DryRun)
	return stats, nil
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}
