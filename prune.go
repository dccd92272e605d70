package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OvercastCommunity/AutoPruner/anvil"
	"github.com/OvercastCommunity/AutoPruner/log"
)

// Outcome is what pruning did to one region file.
type Outcome int

const (
	// Skipped files had nothing to prune and were not rewritten.
	Skipped Outcome = iota
	Rewritten
	Deleted
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Rewritten:
		return "rewritten"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PruneResult reports the effect of pruning one file.
type PruneResult struct {
	Path    string
	Outcome Outcome
	// Chunks counts the occupied slots before pruning; Pruned how many of them were cleared.
	Chunks int
	Pruned int
	// Reclaimed is the size difference in bytes. Dry runs report the size the file would
	// shrink by.
	Reclaimed int64
}

// Prunable reports whether a chunk holds nothing worth keeping: no entities, no tile
// entities, no blocks in sections 0 to 15 and no biome other than plains.
func Prunable(chunk *anvil.Chunk) bool {
	if l := chunk.Entities(); l != nil && l.Len() > 0 {
		return false
	}
	if l := chunk.TileEntities(); l != nil && l.Len() > 0 {
		return false
	}
	for y := int8(0); y < 16; y++ {
		if s := chunk.Section(y); s != nil && !s.IsEmpty() {
			return false
		}
	}
	return !chunk.HasSpecialBiomes()
}

// Pruner applies the prune policy to region files.
type Pruner struct {
	logger log.Logger
	dryRun bool
	save   anvil.SaveOptions
}

func NewPruner(logger log.Logger, cfg *Config) *Pruner {
	return &Pruner{
		logger: logger,
		dryRun: cfg.DryRun,
		save:   anvil.SaveOptions{TouchTimestamps: cfg.TouchTimestamps},
	}
}

// PruneFile clears every prunable chunk of the region file at path. The file is deleted
// when no chunk remains and left untouched when nothing changed.
func (p *Pruner) PruneFile(path string) (result PruneResult, err error) {
	result.Path = path
	logger := p.logger.WithField("file", path)
	if p.dryRun {
		logger = logger.WithField("dry_run", true)
	}

	info, err := os.Stat(path)
	if err != nil {
		return result, err
	}
	initialSize := info.Size()

	region, err := anvil.Open(path, anvil.LoadOptions{})
	if err != nil {
		return result, err
	}

	changed := false
	region.Each(func(index int, chunk *anvil.Chunk) bool {
		result.Chunks++
		if Prunable(chunk) {
			_ = region.Remove(index)
			result.Pruned++
			changed = true
			return true
		}
		// Save restamps positions from the file name, so a mismatch counts as a change.
		chunk.SetPosition(region.ChunkPosition(index))
		if !changed {
			changed, err = chunk.Changed()
		}
		return err == nil
	})
	if err != nil {
		return result, err
	}

	switch {
	case region.Empty():
		result.Outcome = Deleted
		result.Reclaimed = initialSize
		if !p.dryRun {
			if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return result, err
			}
		}
		logger.Info("Deleted file (%s)", ReadableSize(initialSize))

	case changed:
		result.Outcome = Rewritten
		var newSize int64
		if p.dryRun {
			counter := &countingWriter{w: io.Discard}
			if _, err = region.Encode(counter, p.save); err != nil {
				return result, err
			}
			newSize = counter.n
		} else {
			if _, err = anvil.Save(region, path, p.save); err != nil {
				return result, err
			}
			if info, err = os.Stat(path); err != nil {
				return result, err
			}
			newSize = info.Size()
		}
		result.Reclaimed = initialSize - newSize
		logger.WithField("pruned", result.Pruned).Info("Deleted %s", ReadableSize(result.Reclaimed))

	default:
		result.Outcome = Skipped
		logger.Info("Skipping already pruned file")
	}
	return result, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
