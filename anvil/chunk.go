package anvil

import (
	"fmt"
	"sort"
	"time"

	"github.com/OvercastCommunity/AutoPruner/nbt"
	"github.com/cespare/xxhash/v2"
)

// PlainsBiome is the biome id written for chunks that were never decorated.
const PlainsBiome = 1

// Chunk is one 16x16 column of a region. It owns its tag tree and caches the fields callers
// read and mutate; Stamp writes the cache back into the tree before encoding.
type Chunk struct {
	data      *nbt.Compound
	timestamp uint32

	dataVersion      int32
	xPos, zPos       int32
	lastUpdate       int64
	inhabitedTime    int64
	lightPopulated   int8
	terrainPopulated int8
	v                int8
	biomes           []byte
	heightMap        []int32
	entities         *nbt.List
	tileEntities     *nbt.List
	tileTicks        *nbt.List
	sections         map[int8]*Section

	// fingerprint of the uncompressed stream the chunk was decoded from
	fingerprint uint64
	decoded     bool
}

// NewChunk creates an empty chunk holding only a Level compound.
func NewChunk(timestamp time.Time) *Chunk {
	data := nbt.NewCompound()
	data.Put("Level", nbt.NewCompound())
	return &Chunk{
		data:      data,
		timestamp: uint32(timestamp.Unix()),
		sections:  make(map[int8]*Section),
	}
}

// DecodeChunk decodes an uncompressed NBT stream into a chunk.
func DecodeChunk(raw []byte, timestamp uint32) (*Chunk, error) {
	root, err := nbt.Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	data, ok := root.Tag.(*nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: root tag is %s", ErrInvalidState, root.Tag.Type())
	}
	chunk, err := ParseChunk(data, timestamp)
	if err != nil {
		return nil, err
	}
	chunk.fingerprint = xxhash.Sum64(raw)
	chunk.decoded = true
	return chunk, nil
}

// ParseChunk projects the cached fields out of data, which must hold a Level compound.
// The chunk takes ownership of data.
func ParseChunk(data *nbt.Compound, timestamp uint32) (chunk *Chunk, err error) {
	level, err := data.Compound("Level")
	if err != nil {
		return nil, fmt.Errorf("%w: data does not contain a Level compound: %w", ErrInvalidState, err)
	}

	chunk = &Chunk{data: data, timestamp: timestamp}
	if chunk.dataVersion, err = optional(data.Int("DataVersion")); err != nil {
		return nil, err
	}
	if chunk.xPos, err = optional(level.Int("xPos")); err != nil {
		return nil, err
	}
	if chunk.zPos, err = optional(level.Int("zPos")); err != nil {
		return nil, err
	}
	if chunk.inhabitedTime, err = optional(level.Long("InhabitedTime")); err != nil {
		return nil, err
	}
	if chunk.lastUpdate, err = optional(level.Long("LastUpdate")); err != nil {
		return nil, err
	}
	if chunk.lightPopulated, err = optional(level.Byte("LightPopulated")); err != nil {
		return nil, err
	}
	if chunk.terrainPopulated, err = optional(level.Byte("TerrainPopulated")); err != nil {
		return nil, err
	}
	if chunk.v, err = optional(level.Byte("V")); err != nil {
		return nil, err
	}
	if chunk.biomes, err = optional(level.ByteArray("Biomes")); err != nil {
		return nil, err
	}
	if chunk.heightMap, err = optional(level.IntArray("Heightmaps")); err != nil {
		return nil, err
	}
	if chunk.entities, err = optional(level.List("Entities")); err != nil {
		return nil, err
	}
	if chunk.tileEntities, err = optional(level.List("TileEntities")); err != nil {
		return nil, err
	}
	if chunk.tileTicks, err = optional(level.List("TileTicks")); err != nil {
		return nil, err
	}
	chunk.sections = parseSections(level)
	return chunk, nil
}

// parseSections is best-effort: an absent or malformed section list yields no sections.
func parseSections(level *nbt.Compound) map[int8]*Section {
	sections := make(map[int8]*Section)
	list, err := level.List("Sections")
	if err != nil {
		return sections
	}
	compounds, err := list.Compounds()
	if err != nil {
		return sections
	}
	for _, c := range compounds {
		section, err := ParseSection(c)
		if err != nil {
			return make(map[int8]*Section)
		}
		sections[section.Y()] = section
	}
	return sections
}

// Timestamp returns the slot modification time stored in the region header.
func (c *Chunk) Timestamp() time.Time {
	return time.Unix(int64(c.timestamp), 0)
}

func (c *Chunk) SetTimestamp(t time.Time) {
	c.timestamp = uint32(t.Unix())
}

func (c *Chunk) DataVersion() int32     { return c.dataVersion }
func (c *Chunk) SetDataVersion(v int32) { c.dataVersion = v }

// Position returns the absolute chunk coordinates.
func (c *Chunk) Position() (x, z int32) { return c.xPos, c.zPos }
func (c *Chunk) SetPosition(x, z int32) { c.xPos, c.zPos = x, z }

func (c *Chunk) LastUpdate() int64        { return c.lastUpdate }
func (c *Chunk) SetLastUpdate(v int64)    { c.lastUpdate = v }
func (c *Chunk) InhabitedTime() int64     { return c.inhabitedTime }
func (c *Chunk) SetInhabitedTime(v int64) { c.inhabitedTime = v }

func (c *Chunk) LightPopulated() int8        { return c.lightPopulated }
func (c *Chunk) SetLightPopulated(v int8)    { c.lightPopulated = v }
func (c *Chunk) TerrainPopulated() int8      { return c.terrainPopulated }
func (c *Chunk) SetTerrainPopulated(v int8)  { c.terrainPopulated = v }
func (c *Chunk) V() int8                     { return c.v }
func (c *Chunk) SetV(v int8)                 { c.v = v }
func (c *Chunk) Biomes() []byte              { return c.biomes }
func (c *Chunk) SetBiomes(v []byte)          { c.biomes = v }
func (c *Chunk) HeightMap() []int32          { return c.heightMap }
func (c *Chunk) SetHeightMap(v []int32)      { c.heightMap = v }
func (c *Chunk) Entities() *nbt.List         { return c.entities }
func (c *Chunk) SetEntities(v *nbt.List)     { c.entities = v }
func (c *Chunk) TileEntities() *nbt.List     { return c.tileEntities }
func (c *Chunk) SetTileEntities(v *nbt.List) { c.tileEntities = v }
func (c *Chunk) TileTicks() *nbt.List        { return c.tileTicks }
func (c *Chunk) SetTileTicks(v *nbt.List)    { c.tileTicks = v }

// Section returns the section at height y, or nil.
func (c *Chunk) Section(y int8) *Section {
	return c.sections[y]
}

// SetSection stores s at its height, replacing any previous section there.
func (c *Chunk) SetSection(s *Section) {
	c.sections[s.Y()] = s
}

func (c *Chunk) RemoveSection(y int8) {
	delete(c.sections, y)
}

// Sections returns the sections ordered by height.
func (c *Chunk) Sections() []*Section {
	out := make([]*Section, 0, len(c.sections))
	for _, s := range c.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Y() < out[j].Y() })
	return out
}

// IsEmpty reports whether every section is empty.
func (c *Chunk) IsEmpty() bool {
	for _, s := range c.sections {
		if !s.IsEmpty() {
			return false
		}
	}
	return true
}

// HasSpecialBiomes reports whether any biome differs from plains.
func (c *Chunk) HasSpecialBiomes() bool {
	for _, b := range c.biomes {
		if b != PlainsBiome {
			return true
		}
	}
	return false
}

// Data returns the owned tree for raw tag access. Cached fields overwrite their tags on the
// next Stamp.
func (c *Chunk) Data() *nbt.Compound {
	return c.data
}

// Stamp writes every cached field into the owned tree, rebuilding the section list without
// empty sections, and returns the tree ready for encoding.
func (c *Chunk) Stamp() (*nbt.Compound, error) {
	level, err := c.data.Compound("Level")
	if err != nil {
		return nil, fmt.Errorf("%w: data does not contain a Level compound: %w", ErrInvalidState, err)
	}
	c.data.PutInt("DataVersion", c.dataVersion)
	level.PutInt("xPos", c.xPos)
	level.PutInt("zPos", c.zPos)
	level.PutLong("LastUpdate", c.lastUpdate)
	level.PutLong("InhabitedTime", c.inhabitedTime)
	level.PutByte("LightPopulated", c.lightPopulated)
	level.PutByte("TerrainPopulated", c.terrainPopulated)
	level.PutByte("V", c.v)
	putOptional(level, "Biomes", nbt.ByteArray(c.biomes), c.biomes != nil)
	putOptional(level, "Heightmaps", nbt.IntArray(c.heightMap), c.heightMap != nil)
	putOptional(level, "Entities", c.entities, c.entities != nil)
	putOptional(level, "TileEntities", c.tileEntities, c.tileEntities != nil)
	putOptional(level, "TileTicks", c.tileTicks, c.tileTicks != nil)

	var stamped []nbt.Tag
	for _, s := range c.Sections() {
		if !s.IsEmpty() {
			stamped = append(stamped, s.Stamp())
		}
	}
	sections, err := nbt.NewList(nbt.TagCompound, stamped...)
	if err != nil {
		return nil, err
	}
	level.Put("Sections", sections)
	return c.data, nil
}

// putOptional stores tag under key, or removes key when the cached field is unset.
func putOptional(c *nbt.Compound, key string, tag nbt.Tag, present bool) {
	if !present {
		c.Remove(key)
		return
	}
	c.Put(key, tag)
}

// Encode stamps the chunk and returns its uncompressed NBT stream.
func (c *Chunk) Encode() ([]byte, error) {
	data, err := c.Stamp()
	if err != nil {
		return nil, err
	}
	return nbt.Marshal(data, "")
}

// Changed reports whether encoding the chunk now would produce a stream different from the
// one it was decoded from. Chunks that were not decoded always report true.
func (c *Chunk) Changed() (bool, error) {
	if !c.decoded {
		return true, nil
	}
	raw, err := c.Encode()
	if err != nil {
		return false, err
	}
	return xxhash.Sum64(raw) != c.fingerprint, nil
}

// Clone returns a deep copy of the chunk and its tree.
func (c *Chunk) Clone() *Chunk {
	out := *c
	out.data = c.data.Clone().(*nbt.Compound)
	out.biomes = cloneBytes(c.biomes)
	if c.heightMap != nil {
		out.heightMap = append([]int32(nil), c.heightMap...)
	}
	out.entities = cloneList(c.entities)
	out.tileEntities = cloneList(c.tileEntities)
	out.tileTicks = cloneList(c.tileTicks)
	out.sections = make(map[int8]*Section, len(c.sections))
	for y, s := range c.sections {
		out.sections[y] = &Section{
			root:       s.root.Clone().(*nbt.Compound),
			y:          s.y,
			blocks:     cloneBytes(s.blocks),
			add:        cloneBytes(s.add),
			data:       cloneBytes(s.data),
			blockLight: cloneBytes(s.blockLight),
			skyLight:   cloneBytes(s.skyLight),
		}
	}
	return &out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func cloneList(l *nbt.List) *nbt.List {
	if l == nil {
		return nil
	}
	return l.Clone().(*nbt.List)
}
