package anvil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/OvercastCommunity/AutoPruner/compression"
)

// ChunkCompression is the codec used for every chunk written by this package.
const ChunkCompression = compression.Zlib

// SectorsFor returns the number of sectors needed to hold size bytes.
func SectorsFor(size int) int {
	return (size + SectorSize - 1) / SectorSize
}

// Writer packs chunk payloads into sectors and emits a region file with gap-free data.
// Payloads are buffered and written, after the header tables, by Close.
type Writer struct {
	writer     io.Writer
	locations  [SlotCount]Location
	timestamps [SlotCount]uint32
	data       bytes.Buffer
	cursor     int
	closed     bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: w, cursor: headerSectors}
}

// Cursor returns the next free sector.
func (w *Writer) Cursor() int {
	return w.cursor
}

func (w *Writer) Location(index int) Location {
	return w.locations[index]
}

// WriteChunk stamps, encodes and compresses chunk into a slot.
func (w *Writer) WriteChunk(index int, chunk *Chunk, timestamp uint32) (err error) {
	raw, err := chunk.Encode()
	if err != nil {
		return
	}
	compressed, err := compression.Compress(ChunkCompression, raw)
	if err != nil {
		return
	}
	return w.WritePayload(index, Payload{Compression: ChunkCompression, Data: compressed}, timestamp)
}

// WritePayload appends an already compressed payload at the next sector boundary.
func (w *Writer) WritePayload(index int, payload Payload, timestamp uint32) (err error) {
	if err = checkIndex(index); err != nil {
		return
	}
	if w.closed {
		return fmt.Errorf("%w: writer is closed", ErrInvalidState)
	}
	if !w.locations[index].Empty() {
		return fmt.Errorf("%w: slot %d written twice", ErrInvalidState, index)
	}
	if !payload.Compression.Valid() {
		return fmt.Errorf("%w: %d", compression.ErrUnsupportedCompression, byte(payload.Compression))
	}

	size := payload.Size()
	sectors := SectorsFor(size)
	if sectors > maxChunkSectors {
		return fmt.Errorf("%w: %d bytes", ErrChunkTooLarge, size)
	}
	if w.cursor > maxOffset {
		return fmt.Errorf("%w: sector %d", ErrRegionTooLarge, w.cursor)
	}

	if err = w.writePayloadHeader(payload); err != nil {
		return
	}
	if _, err = w.data.Write(payload.Data); err != nil {
		return
	}
	w.data.Write(make([]byte, sectors*SectorSize-size))

	w.locations[index] = NewLocation(w.cursor, sectors)
	w.timestamps[index] = timestamp
	w.cursor += sectors
	return nil
}

func (w *Writer) writePayloadHeader(payload Payload) error {
	var header struct {
		Length      int32
		Compression compression.Type
	}
	header.Length = int32(len(payload.Data) + 1)
	header.Compression = payload.Compression
	return binary.Write(&w.data, binary.BigEndian, header)
}

func (w *Writer) writeHeader() (err error) {
	if err = binary.Write(w.writer, binary.BigEndian, w.locations[:]); err != nil {
		return
	}
	return binary.Write(w.writer, binary.BigEndian, w.timestamps[:])
}

// Close writes the header tables followed by the packed data.
func (w *Writer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true
	if err = w.writeHeader(); err != nil {
		return
	}
	_, err = w.data.WriteTo(w.writer)
	return
}
