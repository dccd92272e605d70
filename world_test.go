package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/OvercastCommunity/AutoPruner/anvil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestFindRegionFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "r.0.0.mca"))
	touch(t, filepath.Join(root, "level.dat"))
	touch(t, filepath.Join(root, "region", "r.1.0.mca"))
	touch(t, filepath.Join(root, "region", "r.1.0.mca.bak"))
	touch(t, filepath.Join(root, "a", "b", "r.2.0.mca"))

	files, err := FindRegionFiles(bufferLogger(&bytes.Buffer{}), root, DefaultMaxDepth)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "r.0.0.mca"),
		filepath.Join(root, "region", "r.1.0.mca"),
		filepath.Join(root, "a", "b", "r.2.0.mca"),
	}, files)

	files, err = FindRegionFiles(bufferLogger(&bytes.Buffer{}), root, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "r.0.0.mca"),
		filepath.Join(root, "region", "r.1.0.mca"),
	}, files)

	_, err = FindRegionFiles(bufferLogger(&bytes.Buffer{}), filepath.Join(root, "missing"), DefaultMaxDepth)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirectoryPruneIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "DIM-1", "region", "r.0.0.mca")
	writeRegion(t, empty, map[int]*anvil.Chunk{0: testChunk(t, chunkOpts{}), 1: testChunk(t, chunkOpts{})})
	kept := filepath.Join(root, "region", "r.0.1.mca")
	writeRegion(t, kept, map[int]*anvil.Chunk{0: testChunk(t, chunkOpts{blocks: stone()})})
	broken := filepath.Join(root, "region", "r.9.9.mca")
	require.NoError(t, os.WriteFile(broken, []byte("truncated"), 0644))
	emptySize := fileSize(t, empty)

	cfg := NewDefaultConfig()
	cfg.Directory = root
	cfg.Workers = 2
	var buf bytes.Buffer
	logger := bufferLogger(&buf)
	results, err := NewDirectoryPruner(NewPruner(logger, cfg), logger, cfg).Prune(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, empty, results[0].Path)
	assert.Equal(t, Deleted, results[0].Outcome)
	assert.Equal(t, kept, results[1].Path)
	assert.Equal(t, Skipped, results[1].Outcome)
	assert.Equal(t, emptySize, Reclaimed(results))

	assert.NoFileExists(t, empty)
	assert.FileExists(t, kept)
	assert.FileExists(t, broken)
	assert.Contains(t, buf.String(), "Failed to prune file")
	assert.Contains(t, buf.String(), "file="+broken)
}

func TestDirectoryPruneCancelled(t *testing.T) {
	root := t.TempDir()
	writeRegion(t, filepath.Join(root, "r.0.0.mca"), map[int]*anvil.Chunk{0: testChunk(t, chunkOpts{})})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := NewDefaultConfig()
	logger := bufferLogger(&bytes.Buffer{})
	results, err := NewDirectoryPruner(NewPruner(logger, cfg), logger, cfg).Prune(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.FileExists(t, filepath.Join(root, "r.0.0.mca"))
}
