// Package anvil reads and writes region files: 1024 chunk slots addressed through two
// 4096-byte header tables and packed into 4096-byte sectors.
package anvil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

var regionName = regexp.MustCompile(`^.*r\.(-?\d+)\.(-?\d+)\.mca$`)

// Region is the in-memory form of one region file. It is not safe for concurrent use;
// give each worker exclusive ownership of a region for its whole load, mutate, save cycle.
type Region struct {
	X, Z int

	chunks  [SlotCount]*Chunk
	corrupt map[int]error
}

// NewRegion creates an empty region at region coordinates x, z.
func NewRegion(x, z int) *Region {
	return &Region{X: x, Z: z}
}

// ParseName extracts the region coordinates from a file name of the form r.<x>.<z>.mca.
func ParseName(path string) (x, z int, err error) {
	m := regionName.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidName, filepath.Base(path))
	}
	if x, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidName, filepath.Base(path))
	}
	if z, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidName, filepath.Base(path))
	}
	return x, z, nil
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// SkipCorrupt leaves slots that fail to decode empty and records their errors in
	// Corrupt instead of failing the whole load.
	SkipCorrupt bool
}

// Open loads the region file at path, taking the region coordinates from its name.
func Open(path string, opts LoadOptions) (*Region, error) {
	x, z, err := ParseName(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	defer reader.Close()

	region := NewRegion(x, z)
	if err = region.load(reader, opts); err != nil {
		return nil, err
	}
	return region, nil
}

// Load reads every occupied slot of the region file in source.
func Load(source io.ReadSeeker, x, z int, opts LoadOptions) (*Region, error) {
	reader, err := NewReader(source)
	if err != nil {
		return nil, err
	}
	region := NewRegion(x, z)
	if err = region.load(reader, opts); err != nil {
		return nil, err
	}
	return region, nil
}

func (r *Region) load(reader *Reader, opts LoadOptions) error {
	for i := 0; i < SlotCount; i++ {
		if !reader.ChunkExists(i) {
			continue
		}
		chunk, err := readChunk(reader, i)
		if err != nil {
			err = &SlotError{Index: i, Err: err}
			if !opts.SkipCorrupt {
				return err
			}
			if r.corrupt == nil {
				r.corrupt = make(map[int]error)
			}
			r.corrupt[i] = err
			continue
		}
		r.chunks[i] = chunk
	}
	return nil
}

func readChunk(reader *Reader, index int) (*Chunk, error) {
	raw, err := reader.ReadChunk(index)
	if err != nil {
		return nil, err
	}
	return DecodeChunk(raw, reader.Timestamp(index))
}

// Corrupt returns the slot errors recorded by a load with SkipCorrupt.
func (r *Region) Corrupt() map[int]error {
	return r.corrupt
}

func checkIndex(index int) error {
	if index < 0 || index >= SlotCount {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	return nil
}

// Chunk returns the chunk in a slot, or nil when the slot is empty.
func (r *Region) Chunk(index int) (*Chunk, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	return r.chunks[index], nil
}

// ChunkAt returns the chunk at chunk coordinates x, z, or nil.
func (r *Region) ChunkAt(x, z int) *Chunk {
	return r.chunks[ChunkIndex(x, z)]
}

// SetChunk stores chunk in a slot. A nil chunk clears the slot.
func (r *Region) SetChunk(index int, chunk *Chunk) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	r.chunks[index] = chunk
	return nil
}

// Remove clears a slot.
func (r *Region) Remove(index int) error {
	return r.SetChunk(index, nil)
}

// Count returns the number of occupied slots.
func (r *Region) Count() int {
	n := 0
	for _, c := range r.chunks {
		if c != nil {
			n++
		}
	}
	return n
}

// Empty reports whether every slot is empty. Deleting the file of an empty region is left
// to the caller; Save never writes one.
func (r *Region) Empty() bool {
	return r.Count() == 0
}

// Each calls fn for every occupied slot in slot order until fn returns false.
func (r *Region) Each(fn func(index int, chunk *Chunk) bool) {
	for i, c := range r.chunks {
		if c != nil && !fn(i, c) {
			return
		}
	}
}

// ChunkPosition returns the absolute chunk coordinates of a slot in this region.
func (r *Region) ChunkPosition(index int) (x, z int32) {
	lx, lz := SlotCoords(index)
	return int32(r.X<<5 + lx), int32(r.Z<<5 + lz)
}

// SaveOptions tunes Encode and Save.
type SaveOptions struct {
	// TouchTimestamps writes the time of the save as every slot timestamp instead of the
	// timestamp each chunk was loaded with.
	TouchTimestamps bool
	// Now overrides the clock used by TouchTimestamps.
	Now func() time.Time
}

// Encode writes the region as a complete region file and returns the number of chunks
// written. Slots are packed in slot order from sector 2 with no gaps, and each chunk's
// position is set from the region coordinates.
func (r *Region) Encode(w io.Writer, opts SaveOptions) (written int, err error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	saveTime := uint32(now().Unix())

	writer := NewWriter(w)
	for i, chunk := range r.chunks {
		if chunk == nil {
			continue
		}
		chunk.SetPosition(r.ChunkPosition(i))

		timestamp := chunk.timestamp
		if opts.TouchTimestamps {
			timestamp = saveTime
		}
		if err = writer.WriteChunk(i, chunk, timestamp); err != nil {
			return written, &SlotError{Index: i, Err: err}
		}
		written++
	}
	if err = writer.Close(); err != nil {
		return written, err
	}
	return written, nil
}
