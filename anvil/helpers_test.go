package anvil

import (
	"testing"
	"time"

	"github.com/OvercastCommunity/AutoPruner/nbt"
	"github.com/stretchr/testify/require"
)

var testTime = time.Unix(1600000000, 0)

type chunkFixture struct {
	sections     map[int8][]byte
	biomes       []byte
	entities     int
	tileEntities int
}

func plainsBiomes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = PlainsBiome
	}
	return b
}

func compoundList(t *testing.T, n int, id string) *nbt.List {
	t.Helper()
	l, err := nbt.NewList(nbt.TagCompound)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		c := nbt.NewCompound()
		c.PutString("id", id)
		require.NoError(t, l.Append(c))
	}
	return l
}

func newTestChunk(t *testing.T, fx chunkFixture) *Chunk {
	t.Helper()
	c := NewChunk(testTime)
	c.SetDataVersion(1343)
	c.SetLastUpdate(1200)
	c.SetInhabitedTime(40)
	c.SetTerrainPopulated(1)
	c.SetLightPopulated(1)
	c.SetV(1)
	c.SetBiomes(fx.biomes)
	c.SetHeightMap(make([]int32, 256))
	c.SetEntities(compoundList(t, fx.entities, "minecraft:pig"))
	c.SetTileEntities(compoundList(t, fx.tileEntities, "minecraft:chest"))
	for y, blocks := range fx.sections {
		s := NewSection(y)
		s.SetBlocks(blocks)
		s.SetData(make([]byte, 2048))
		s.SetBlockLight(make([]byte, 2048))
		s.SetSkyLight(make([]byte, 2048))
		c.SetSection(s)
	}
	return c
}

func stoneBlocks() []byte {
	b := make([]byte, 4096)
	for i := range b {
		b[i] = 1
	}
	return b
}
