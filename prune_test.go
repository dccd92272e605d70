package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/OvercastCommunity/AutoPruner/anvil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrunable(t *testing.T) {
	testCases := []struct {
		name string
		opts chunkOpts
		want bool
	}{
		{"no blocks", chunkOpts{}, true},
		{"zero blocks", chunkOpts{blocks: make([]byte, 4096)}, true},
		{"blocks", chunkOpts{blocks: stone()}, false},
		{"entities", chunkOpts{entities: 1}, false},
		{"tile entities", chunkOpts{tileEntities: 2}, false},
		{"special biome", chunkOpts{biome: 4}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Prunable(testChunk(t, tc.opts)))
		})
	}
}

func TestPrunableIgnoresSectionsOutsideTheColumn(t *testing.T) {
	chunk := testChunk(t, chunkOpts{})
	high := anvil.NewSection(16)
	high.SetBlocks(stone())
	chunk.SetSection(high)
	assert.True(t, Prunable(chunk))
}

func TestPruneFileRemovesEmptyChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	writeRegion(t, path, map[int]*anvil.Chunk{
		0: testChunk(t, chunkOpts{blocks: stone()}),
		1: testChunk(t, chunkOpts{blocks: make([]byte, 4096)}),
	})
	before := fileSize(t, path)

	var buf bytes.Buffer
	pruner := NewPruner(bufferLogger(&buf), NewDefaultConfig())
	result, err := pruner.PruneFile(path)
	require.NoError(t, err)
	assert.Equal(t, Rewritten, result.Outcome)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 1, result.Pruned)
	assert.Equal(t, int64(anvil.SectorSize), result.Reclaimed)
	assert.Equal(t, before-anvil.SectorSize, fileSize(t, path))
	assert.Contains(t, buf.String(), "Deleted 4 kB")

	region, err := anvil.Open(path, anvil.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, region.Count())
	assert.NotNil(t, region.ChunkAt(0, 0))

	result, err = pruner.PruneFile(path)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Outcome)
	assert.Zero(t, result.Reclaimed)
	assert.Contains(t, buf.String(), "Skipping already pruned file")
}

func TestPruneFileDeletesEmptyRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.-1.3.mca")
	writeRegion(t, path, map[int]*anvil.Chunk{
		5:   testChunk(t, chunkOpts{}),
		900: testChunk(t, chunkOpts{blocks: make([]byte, 4096)}),
	})
	before := fileSize(t, path)

	pruner := NewPruner(bufferLogger(&bytes.Buffer{}), NewDefaultConfig())
	result, err := pruner.PruneFile(path)
	require.NoError(t, err)
	assert.Equal(t, Deleted, result.Outcome)
	assert.Equal(t, 2, result.Pruned)
	assert.Equal(t, before, result.Reclaimed)
	assert.NoFileExists(t, path)
}

func TestPruneFileKeepsSpecialBiomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	writeRegion(t, path, map[int]*anvil.Chunk{
		0: testChunk(t, chunkOpts{biome: 6}),
		1: testChunk(t, chunkOpts{entities: 3}),
	})

	pruner := NewPruner(bufferLogger(&bytes.Buffer{}), NewDefaultConfig())
	result, err := pruner.PruneFile(path)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Outcome)
	assert.Zero(t, result.Pruned)
}

func TestPruneFileCorrectsMisplacedPositions(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "r.0.0.mca")
	writeRegion(t, original, map[int]*anvil.Chunk{
		anvil.ChunkIndex(3, 4): testChunk(t, chunkOpts{blocks: stone()}),
	})
	data, err := os.ReadFile(original)
	require.NoError(t, err)
	moved := filepath.Join(dir, "r.1.-1.mca")
	require.NoError(t, os.WriteFile(moved, data, 0644))

	pruner := NewPruner(bufferLogger(&bytes.Buffer{}), NewDefaultConfig())
	result, err := pruner.PruneFile(moved)
	require.NoError(t, err)
	assert.Equal(t, Rewritten, result.Outcome)
	assert.Zero(t, result.Pruned)

	region, err := anvil.Open(moved, anvil.LoadOptions{})
	require.NoError(t, err)
	x, z := region.ChunkAt(3, 4).Position()
	assert.Equal(t, int32(32+3), x)
	assert.Equal(t, int32(-32+4), z)

	result, err = pruner.PruneFile(moved)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Outcome)
}

func TestPruneFileDryRun(t *testing.T) {
	dir := t.TempDir()
	partial := filepath.Join(dir, "r.0.0.mca")
	writeRegion(t, partial, map[int]*anvil.Chunk{
		0: testChunk(t, chunkOpts{blocks: stone()}),
		1: testChunk(t, chunkOpts{}),
	})
	empty := filepath.Join(dir, "r.1.0.mca")
	writeRegion(t, empty, map[int]*anvil.Chunk{0: testChunk(t, chunkOpts{})})
	partialBefore, err := os.ReadFile(partial)
	require.NoError(t, err)

	cfg := NewDefaultConfig()
	cfg.DryRun = true
	var buf bytes.Buffer
	pruner := NewPruner(bufferLogger(&buf), cfg)

	result, err := pruner.PruneFile(partial)
	require.NoError(t, err)
	assert.Equal(t, Rewritten, result.Outcome)
	assert.Equal(t, int64(anvil.SectorSize), result.Reclaimed)
	partialAfter, err := os.ReadFile(partial)
	require.NoError(t, err)
	assert.Equal(t, partialBefore, partialAfter)

	result, err = pruner.PruneFile(empty)
	require.NoError(t, err)
	assert.Equal(t, Deleted, result.Outcome)
	assert.FileExists(t, empty)
	assert.Contains(t, buf.String(), "dry_run=true")
}

func TestPruneFileFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := NewPruner(bufferLogger(&bytes.Buffer{}), NewDefaultConfig()).PruneFile(filepath.Join(dir, "r.0.0.mca"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "r.2.2.mca")
	require.NoError(t, os.WriteFile(garbage, []byte("not a region"), 0644))
	_, err = NewPruner(bufferLogger(&bytes.Buffer{}), NewDefaultConfig()).PruneFile(garbage)
	assert.ErrorIs(t, err, anvil.ErrMalformedContainer)
	assert.FileExists(t, garbage)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "rewritten", Rewritten.String())
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())
}
