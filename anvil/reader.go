package anvil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/OvercastCommunity/AutoPruner/compression"
)

const (
	SlotCount     = 1024
	SectorSize    = 4096
	HeaderSize    = 2 * SectorSize
	headerSectors = HeaderSize / SectorSize

	// A location entry keeps the sector count in a single byte.
	maxChunkSectors = 255
	maxOffset       = 1<<24 - 1
	frameHeaderSize = 5
)

// ChunkIndex returns the slot of a chunk. Absolute and region-relative coordinates map to
// the same slot.
func ChunkIndex(x, z int) int {
	return (x & 31) + (z&31)*32
}

// SlotCoords returns the region-relative coordinates of a slot.
func SlotCoords(index int) (x, z int) {
	return index & 31, index >> 5
}

// Location is one entry of the offset table.
type Location uint32

func NewLocation(offset, sectors int) Location {
	return Location(uint32(offset)<<8 | uint32(sectors&0xff))
}

func (l Location) Offset() int  { return int(l >> 8) }
func (l Location) Sectors() int { return int(l & 0xff) }
func (l Location) Empty() bool  { return l.Sectors() == 0 }

// Payload is one framed chunk as stored in the data area.
type Payload struct {
	Compression compression.Type
	Data        []byte
}

// Size returns the framed size: length prefix, selector byte and data.
func (p Payload) Size() int {
	return frameHeaderSize + len(p.Data)
}

// Reader reads the header tables and raw chunk payloads of a region file. The reader is not
// safe for concurrent access; usage should be protected by a mutex if concurrent access is
// desired.
type Reader struct {
	source     io.ReadSeeker
	locations  [SlotCount]Location
	timestamps [SlotCount]uint32
	Name       string
}

// NewReader creates a Reader and loads both header tables. The ownership of the source is
// transferred to this reader.
func NewReader(source io.ReadSeeker) (reader *Reader, err error) {
	reader = &Reader{source: source}

	if file, ok := source.(*os.File); ok {
		reader.Name = file.Name()
	}
	err = reader.readHeader()
	return
}

func (r *Reader) readHeader() (err error) {
	if _, err = r.source.Seek(0, io.SeekStart); err != nil {
		return err
	}

	rawHeader := make([]byte, HeaderSize)
	if _, err = io.ReadFull(r.source, rawHeader); err != nil {
		return fmt.Errorf("%w: could not read header: %w", ErrMalformedContainer, err)
	}

	headerIn := bytes.NewReader(rawHeader)
	if err = binary.Read(headerIn, binary.BigEndian, r.locations[:]); err != nil {
		return err
	}
	return binary.Read(headerIn, binary.BigEndian, r.timestamps[:])
}

func (r *Reader) Location(index int) Location {
	return r.locations[index]
}

// Timestamp returns the stored modification time of a slot in seconds since the epoch.
func (r *Reader) Timestamp(index int) uint32 {
	return r.timestamps[index]
}

func (r *Reader) ChunkExists(index int) bool {
	return !r.locations[index].Empty()
}

// ReadPayload reads the framed payload of a slot without decompressing it.
func (r *Reader) ReadPayload(index int) (payload Payload, err error) {
	location := r.locations[index]
	if location.Empty() {
		return payload, ErrNoChunk
	}
	if location.Offset() < headerSectors {
		return payload, fmt.Errorf("%w: chunk offset %d overlaps the header", ErrMalformedContainer, location.Offset())
	}

	if _, err = r.source.Seek(int64(location.Offset())*SectorSize, io.SeekStart); err != nil {
		return payload, fmt.Errorf("failed to seek: %w", err)
	}

	var payloadInfo struct {
		Length      int32
		Compression compression.Type
	}
	if err = binary.Read(r.source, binary.BigEndian, &payloadInfo); err != nil {
		return payload, fmt.Errorf("%w: could not read payload header: %w", ErrMalformedContainer, err)
	}
	if payloadInfo.Length < 1 || payloadInfo.Length > maxChunkSectors*SectorSize-4 {
		return payload, fmt.Errorf("%w: %d", ErrInvalidChunkLength, payloadInfo.Length)
	}
	if !payloadInfo.Compression.Valid() {
		return payload, fmt.Errorf("%w: %d", compression.ErrUnsupportedCompression, byte(payloadInfo.Compression))
	}

	payload.Compression = payloadInfo.Compression
	payload.Data = make([]byte, payloadInfo.Length-1)
	if _, err = io.ReadFull(r.source, payload.Data); err != nil {
		return payload, fmt.Errorf("%w: could not read payload data: %w", ErrMalformedContainer, err)
	}
	return payload, nil
}

// ReadChunk reads and decompresses the chunk stored in a slot. The returned bytes are an
// uncompressed NBT stream.
func (r *Reader) ReadChunk(index int) ([]byte, error) {
	payload, err := r.ReadPayload(index)
	if err != nil {
		return nil, err
	}
	return compression.Decompress(payload.Compression, payload.Data)
}

func (r *Reader) Close() error {
	if closer, ok := r.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
