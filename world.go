package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/OvercastCommunity/AutoPruner/log"
	"golang.org/x/sync/errgroup"
)

// RegionFileSuffix marks the files a directory prune visits.
const RegionFileSuffix = ".mca"

// FindRegionFiles lists the region files under root, descending at most maxDepth directory
// levels below it. Subdirectories that cannot be read are logged and skipped.
func FindRegionFiles(logger log.Logger, root string, maxDepth int) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []string
	var walk func(dir string, entries []os.DirEntry, depth int)
	walk = func(dir string, entries []os.DirEntry, depth int) {
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch {
			case entry.IsDir():
				if depth >= maxDepth {
					continue
				}
				children, err := os.ReadDir(path)
				if err != nil {
					logger.Warn("Failed to read directory %s: %v", path, err)
					continue
				}
				walk(path, children, depth+1)
			case entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), RegionFileSuffix):
				files = append(files, path)
			}
		}
	}
	walk(root, entries, 0)
	return files, nil
}

// DirectoryPruner prunes every region file of a directory tree on a bounded worker pool.
type DirectoryPruner struct {
	pruner   *Pruner
	logger   log.Logger
	workers  int
	maxDepth int
}

func NewDirectoryPruner(pruner *Pruner, logger log.Logger, cfg *Config) *DirectoryPruner {
	return &DirectoryPruner{
		pruner:   pruner,
		logger:   logger,
		workers:  cfg.Workers,
		maxDepth: cfg.MaxDepth,
	}
}

// Prune prunes the tree under root and returns the results of the files that were processed.
// A file that fails is logged as a warning and does not stop the others; only a failure to
// read root or a cancelled context is returned.
func (d *DirectoryPruner) Prune(ctx context.Context, root string) ([]PruneResult, error) {
	files, err := FindRegionFiles(d.logger, root, d.maxDepth)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Discovered %d region files", len(files))

	var (
		mu      sync.Mutex
		results []PruneResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := d.pruner.PruneFile(path)
			if err != nil {
				d.logger.WithField("file", path).Warn("Failed to prune file: %v", err)
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	if err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Reclaimed sums the bytes reclaimed over results.
func Reclaimed(results []PruneResult) int64 {
	var total int64
	for _, r := range results {
		total += r.Reclaimed
	}
	return total
}
