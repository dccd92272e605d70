package anvil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.1.-2.mca")

	region := NewRegion(1, -2)
	require.NoError(t, region.SetChunk(ChunkIndex(4, 4), newTestChunk(t, chunkFixture{
		sections: map[int8][]byte{0: stoneBlocks()},
		biomes:   plainsBiomes(),
	})))

	written, err := Save(region, path, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size()%SectorSize)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")

	loaded, err := Open(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.X)
	assert.Equal(t, -2, loaded.Z)
	chunk := loaded.ChunkAt(4, 4)
	require.NotNil(t, chunk)
	x, z := chunk.Position()
	assert.Equal(t, int32(32+4), x)
	assert.Equal(t, int32(-64+4), z)
}

func TestSaveEmptyRegionLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")
	require.NoError(t, os.WriteFile(path, []byte("previous revision"), 0644))

	written, err := Save(NewRegion(0, 0), path, SaveOptions{})
	require.NoError(t, err)
	assert.Zero(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous revision", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveReplacesPreviousRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")

	region := NewRegion(0, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, region.SetChunk(i, newTestChunk(t, chunkFixture{sections: map[int8][]byte{0: stoneBlocks()}})))
	}
	_, err := Save(region, path, SaveOptions{})
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Open(path, LoadOptions{})
	require.NoError(t, err)
	require.NoError(t, loaded.Remove(1))
	written, err := Save(loaded, path, SaveOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, after.Size(), before.Size())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()
	reader, err := NewReader(r)
	require.NoError(t, err)
	assert.Equal(t, headerSectors, reader.Location(0).Offset())
	assert.Equal(t, reader.Location(0).Offset()+reader.Location(0).Sectors(), reader.Location(2).Offset(), "no gap is kept")
	assert.False(t, reader.ChunkExists(1))
}

func TestOpenRejectsBadName(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "chunks.dat"), LoadOptions{})
	assert.ErrorIs(t, err, ErrInvalidName)
}
