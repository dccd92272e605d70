package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OvercastCommunity/AutoPruner/anvil"
	"github.com/OvercastCommunity/AutoPruner/log"
	"github.com/OvercastCommunity/AutoPruner/nbt"
	"github.com/stretchr/testify/require"
)

type chunkOpts struct {
	blocks       []byte
	biome        byte
	entities     int
	tileEntities int
}

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func entityList(t *testing.T, n int) *nbt.List {
	t.Helper()
	l, err := nbt.NewList(nbt.TagCompound)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, l.Append(nbt.NewCompound()))
	}
	return l
}

func testChunk(t *testing.T, opts chunkOpts) *anvil.Chunk {
	t.Helper()
	biome := opts.biome
	if biome == 0 {
		biome = anvil.PlainsBiome
	}
	chunk := anvil.NewChunk(time.Unix(1600000000, 0))
	chunk.SetDataVersion(1343)
	chunk.SetBiomes(filled(256, biome))
	chunk.SetEntities(entityList(t, opts.entities))
	chunk.SetTileEntities(entityList(t, opts.tileEntities))
	section := anvil.NewSection(0)
	section.SetBlocks(opts.blocks)
	section.SetSkyLight(filled(2048, 0xff))
	chunk.SetSection(section)
	return chunk
}

func stone() []byte { return filled(4096, 1) }

func writeRegion(t *testing.T, path string, chunks map[int]*anvil.Chunk) {
	t.Helper()
	x, z, err := anvil.ParseName(path)
	require.NoError(t, err)
	region := anvil.NewRegion(x, z)
	for i, c := range chunks {
		require.NoError(t, region.SetChunk(i, c))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	_, err = anvil.Save(region, path, anvil.SaveOptions{})
	require.NoError(t, err)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func bufferLogger(buf *bytes.Buffer) log.Logger {
	return log.NewStandardLogger(log.WithOutput(buf), log.WithLevel(log.LevelDebug))
}
