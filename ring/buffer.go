// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package ring implements the ZwinderBuffer ring primitive: a
// fixed-byte-budget FIFO of variably sized opaque snapshots, admitting
// captures subject to a frequency policy and reporting entries it
// evicts to make room for new ones.
//
// The buffer has no opinion on what happens to an evicted entry - that
// promotion/discard policy belongs to the caller (see package state).
package ring

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
)

// Config describes a buffer's admission cadence and byte budget.
type Config struct {
	// RewindFrequency is the minimum frame delta between admitted
	// captures. A proposed capture within this distance of the
	// buffer's newest entry is refused unless force is set.
	RewindFrequency uint32

	// ByteBudget is the maximum total size, in bytes, of the entries
	// the buffer will hold before evicting the oldest (smallest frame)
	// entries to make room.
	ByteBudget uint64
}

// Snapshotter writes an opaque snapshot to sink. It is the only thing
// the buffer needs from whatever produces the bytes it stores.
type Snapshotter interface {
	Write(sink io.Writer) error
}

// SnapshotFunc adapts a plain function to the Snapshotter interface.
type SnapshotFunc func(sink io.Writer) error

// Write implements Snapshotter.
func (f SnapshotFunc) Write(sink io.Writer) error {
	return f(sink)
}

// Entry is a single stored snapshot.
type Entry struct {
	Frame uint32
	bytes []byte
}

// Size returns the number of bytes the entry occupies.
func (e Entry) Size() int {
	return len(e.bytes)
}

// OpenReadStream returns a fresh reader over the entry's bytes. The
// reader is independent of any subsequent mutation of the buffer the
// entry came from.
func (e Entry) OpenReadStream() io.Reader {
	return bytes.NewReader(e.bytes)
}

// Bytes returns a copy of the entry's stored bytes.
func (e Entry) Bytes() []byte {
	c := make([]byte, len(e.bytes))
	copy(c, e.bytes)
	return c
}

// EvictFunc is called once for every entry a Capture evicts to make
// room for the incoming one, oldest (smallest frame) first.
type EvictFunc func(Entry)

// Buffer is the ZwinderBuffer ring primitive.
type Buffer struct {
	cfg        Config
	entries    []Entry // sorted ascending by Frame
	totalBytes uint64
	disposed   bool
}

// New is the preferred method of initialisation for Buffer.
func New(cfg Config) *Buffer {
	return &Buffer{cfg: cfg}
}

// RewindFrequency returns the buffer's admission cadence.
func (b *Buffer) RewindFrequency() uint32 {
	return b.cfg.RewindFrequency
}

// ByteBudget returns the buffer's byte budget.
func (b *Buffer) ByteBudget() uint64 {
	return b.cfg.ByteBudget
}

// MatchesSettings reports whether cfg is identical to the buffer's
// current configuration.
func (b *Buffer) MatchesSettings(cfg Config) bool {
	return reflect.DeepEqual(b.cfg, cfg)
}

// Count returns the number of entries currently stored.
func (b *Buffer) Count() int {
	return len(b.entries)
}

// Get returns the entry at index (0 is oldest, Count()-1 is newest).
func (b *Buffer) Get(index int) (Entry, bool) {
	if index < 0 || index >= len(b.entries) {
		return Entry{}, false
	}
	return b.entries[index], true
}

// Find returns the entry stored at the exact frame given, if any,
// using a binary search over the buffer's sorted entries.
func (b *Buffer) Find(frame uint32) (Entry, bool) {
	i := b.insertPos(frame)
	if i < len(b.entries) && b.entries[i].Frame == frame {
		return b.entries[i], true
	}
	return Entry{}, false
}

// Newest returns the entry with the largest frame number, if any.
func (b *Buffer) Newest() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Capture proposes a new snapshot at frame. It returns true if the
// entry was admitted. Admission is refused, without error, if the
// frame is within RewindFrequency of the buffer's newest entry and
// force is false. onEvict, if non-nil, is called once for every entry
// dropped to keep the buffer within ByteBudget, oldest first,
// including - in the degenerate case of a single incoming entry
// exceeding the whole budget - the entry just inserted.
func (b *Buffer) Capture(frame uint32, snap Snapshotter, onEvict EvictFunc, force bool) (bool, error) {
	if b.disposed {
		return false, fmt.Errorf("zwinder: capture on disposed buffer")
	}

	if !force && len(b.entries) > 0 {
		newest := b.entries[len(b.entries)-1].Frame
		if delta(frame, newest) < b.cfg.RewindFrequency {
			return false, nil
		}
	}

	var buf bytes.Buffer
	if snap != nil {
		if err := snap.Write(&buf); err != nil {
			return false, err
		}
	}
	e := Entry{Frame: frame, bytes: buf.Bytes()}

	pos := b.insertPos(frame)
	b.entries = append(b.entries, Entry{})
	copy(b.entries[pos+1:], b.entries[pos:])
	b.entries[pos] = e
	b.totalBytes += uint64(e.Size())

	for b.totalBytes > b.cfg.ByteBudget && len(b.entries) > 0 {
		evicted := b.entries[0]
		b.entries = b.entries[1:]
		b.totalBytes -= uint64(evicted.Size())
		if onEvict != nil {
			onEvict(evicted)
		}
	}

	return true, nil
}

// insertPos returns the index at which frame should be inserted to
// keep entries sorted ascending.
func (b *Buffer) insertPos(frame uint32) int {
	lo, hi := 0, len(b.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if b.entries[mid].Frame < frame {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func delta(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// FirstAfter returns the index of the first entry whose frame is
// strictly greater than frame, and whether one exists.
func (b *Buffer) FirstAfter(frame uint32) (int, bool) {
	if frame == ^uint32(0) {
		return 0, false
	}
	i := b.insertPos(frame + 1)
	if i >= len(b.entries) {
		return 0, false
	}
	return i, true
}

// InvalidateEnd truncates the buffer, discarding every entry from
// index onward. Entries are not reported through an EvictFunc - the
// caller is expected to remove them from any index it maintains
// itself.
func (b *Buffer) InvalidateEnd(index int) {
	if index < 0 || index >= len(b.entries) {
		return
	}
	for _, e := range b.entries[index:] {
		b.totalBytes -= uint64(e.Size())
	}
	b.entries = b.entries[:index]
}

// Dispose releases the buffer's entries. Calling Dispose more than
// once is a no-op.
func (b *Buffer) Dispose() {
	if b.disposed {
		return
	}
	b.entries = nil
	b.totalBytes = 0
	b.disposed = true
}

// WriteTo serializes the buffer's entries (not its configuration) to
// w: an entry count followed by, for each entry, its frame, the
// length of its bytes, then the bytes themselves. All integers are
// little-endian uint32.
func (b *Buffer) WriteTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.entries))); err != nil {
		return err
	}
	for _, e := range b.entries {
		if err := binary.Write(w, binary.LittleEndian, e.Frame); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(e.bytes))); err != nil {
			return err
		}
		if _, err := w.Write(e.bytes); err != nil {
			return err
		}
	}
	return nil
}

// Load parses a buffer serialized by WriteTo. The returned buffer has
// a zero Config; the caller (package state, on behalf of the settings
// it was itself given) must call Configure before using it for
// further captures.
func Load(r io.Reader) (*Buffer, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("zwinder: reading entry count: %w", err)
	}

	b := &Buffer{entries: make([]Entry, 0, count)}
	for i := uint32(0); i < count; i++ {
		var frame, length uint32
		if err := binary.Read(r, binary.LittleEndian, &frame); err != nil {
			return nil, fmt.Errorf("zwinder: reading entry frame: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("zwinder: reading entry length: %w", err)
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("zwinder: reading entry bytes: %w", err)
		}
		b.entries = append(b.entries, Entry{Frame: frame, bytes: raw})
		b.totalBytes += uint64(length)
	}
	return b, nil
}

// Configure attaches cfg to a buffer, typically one just returned by
// Load (whose configuration is not part of the serialized format).
func (b *Buffer) Configure(cfg Config) {
	b.cfg = cfg
}
