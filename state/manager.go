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

// Package state implements the frame-indexed emulator-state cache: a
// bounded-memory store of opaque emulator snapshots that answers
// "closest state at-or-before frame F" in near-constant time, while
// absorbing a monotonically advancing stream of captures at the head
// and surviving seeks backward in time.
//
// Three decaying ring buffers (CurrentRing, RecentRing, GapRing) plus
// one never-decaying reserved map compose the store; a FrameIndex
// keeps an ordered view of every frame addressable anywhere above it.
package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/jetsetilly/zwinder/ring"
	"github.com/jetsetilly/zwinder/zlog"
)

// Snapshotter writes an opaque snapshot to sink.
type Snapshotter = ring.Snapshotter

// SnapshotFunc adapts a plain function to Snapshotter.
type SnapshotFunc = ring.SnapshotFunc

// ReserveCallback decides whether a frame should be pinned into the
// reserved map. It is consulted frequently and must be pure and
// cheap.
type ReserveCallback func(frame uint32) bool

// reservedEntry is one owned entry of the reserved map, tagged with
// whether it was pinned by the caller (via ReserveCallback or
// CaptureReserved) or auto-promoted by the ancient-anchor policy.
// Only caller-reserved entries are exempt from the ancient-spacing
// repair pass in UpdateSettings.
type reservedEntry struct {
	bytes          []byte
	callerReserved bool
}

// Manager is the frame-indexed state cache described by this module.
type Manager struct {
	settings Settings
	reserve  ReserveCallback

	current *ring.Buffer
	recent  *ring.Buffer
	gap     *ring.Buffer

	reserved map[uint32]reservedEntry
	index    *frameIndex

	log      zlog.Logger
	disposed bool
}

// New creates a Manager with the given settings and reservation
// policy. The manager holds no states until Engage is called.
func New(settings Settings, reserve ReserveCallback) *Manager {
	if reserve == nil {
		reserve = func(uint32) bool { return false }
	}
	return &Manager{
		settings: settings,
		reserve:  reserve,
		current:  ring.New(settings.Current),
		recent:   ring.New(settings.Recent),
		gap:      ring.New(settings.Gap),
		reserved: make(map[uint32]reservedEntry),
		index:    newFrameIndex(),
		log:      zlog.New("state"),
	}
}

// Engage pins frame 0 into the reserved map, from the snapshot
// produced by state0. It must be called before any other operation
// and must be called exactly once per Manager.
func (m *Manager) Engage(state0 Snapshotter) error {
	var buf sliceWriter
	if state0 != nil {
		if err := state0.Write(&buf); err != nil {
			return err
		}
	}
	m.reserved[0] = reservedEntry{bytes: buf.b, callerReserved: true}
	m.index.insert(0)
	m.log.Debugf("engaged frame 0 (%d bytes)", len(buf.b))
	return nil
}

// sliceWriter is a minimal io.Writer collecting bytes, used in place
// of bytes.Buffer where only the final slice is wanted.
type sliceWriter struct{ b []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// store identifies which of the four stores owns a frame.
type store int

const (
	storeNone store = iota
	storeCurrent
	storeRecent
	storeGap
	storeReserved
)

// locate returns the store owning frame, or storeNone if it isn't
// present anywhere. This is the side table the FrameIndex's ordered
// set is deliberately kept free of (see DESIGN.md, open question
// "AllStates ordering").
func (m *Manager) locate(frame uint32) store {
	if _, ok := m.reserved[frame]; ok {
		return storeReserved
	}
	if _, ok := m.current.Find(frame); ok {
		return storeCurrent
	}
	if _, ok := m.recent.Find(frame); ok {
		return storeRecent
	}
	if _, ok := m.gap.Find(frame); ok {
		return storeGap
	}
	return storeNone
}

// HasState reports whether frame is addressable anywhere in the
// cache.
func (m *Manager) HasState(frame uint32) bool {
	return m.index.contains(frame)
}

// Last returns the largest frame addressable anywhere in the cache,
// including reserved frames that lie ahead of the replay head (a
// branch point may be reserved before the emulation reaches it).
func (m *Manager) Last() uint32 {
	return m.index.max()
}

// Count returns the total number of states held across all four
// stores.
func (m *Manager) Count() int {
	return m.current.Count() + m.recent.Count() + m.gap.Count() + len(m.reserved)
}

// CurrentLen, RecentLen, GapLen and ReservedLen break Count down per
// store; a read-only convenience used by package zwstats, not part of
// the invariants.
func (m *Manager) CurrentLen() int  { return m.current.Count() }
func (m *Manager) RecentLen() int   { return m.recent.Count() }
func (m *Manager) GapLen() int      { return m.gap.Count() }
func (m *Manager) ReservedLen() int { return len(m.reserved) }

// GetClosest finds the largest stored frame <= frame and returns it
// together with a fresh read stream over its bytes. Frame 0 is always
// reserved, so this never fails for non-negative frame.
func (m *Manager) GetClosest(frame int64) (uint32, io.Reader, error) {
	if frame < 0 {
		return 0, nil, errOutOfRange("GetClosest: frame must not be negative")
	}
	f, ok := m.index.closestLE(clampFrame(frame))
	if !ok {
		// frame 0 is always reserved once Engage has run; this only
		// happens if the caller never engaged the manager.
		return 0, nil, errOutOfRange("GetClosest: cache has not been engaged")
	}
	r, err := m.openReadStream(f)
	return f, r, err
}

// At returns the exact snapshot bytes stored at frame, or an empty
// slice if no state exists precisely at that frame. Unlike
// GetClosest this is an exact-match accessor, and never errors.
func (m *Manager) At(frame uint32) []byte {
	switch m.locate(frame) {
	case storeReserved:
		e := m.reserved[frame]
		c := make([]byte, len(e.bytes))
		copy(c, e.bytes)
		return c
	case storeCurrent:
		if e, ok := m.current.Find(frame); ok {
			return e.Bytes()
		}
	case storeRecent:
		if e, ok := m.recent.Find(frame); ok {
			return e.Bytes()
		}
	case storeGap:
		if e, ok := m.gap.Find(frame); ok {
			return e.Bytes()
		}
	}
	return []byte{}
}

func (m *Manager) openReadStream(frame uint32) (io.Reader, error) {
	switch m.locate(frame) {
	case storeReserved:
		e := m.reserved[frame]
		c := make([]byte, len(e.bytes))
		copy(c, e.bytes)
		return bytes.NewReader(c), nil
	case storeCurrent:
		if e, ok := m.current.Find(frame); ok {
			return e.OpenReadStream(), nil
		}
	case storeRecent:
		if e, ok := m.recent.Find(frame); ok {
			return e.OpenReadStream(), nil
		}
	case storeGap:
		if e, ok := m.gap.Find(frame); ok {
			return e.OpenReadStream(), nil
		}
	}
	return nil, errOutOfRange("GetClosest: frame index and stores have diverged")
}

func clampFrame(frame int64) uint32 {
	if frame > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(frame)
}

// Capture is the single entry point for absorbing a new snapshot. See
// SPEC_FULL.md / spec.md §4.3 for the full algorithm.
func (m *Manager) Capture(frame uint32, snap Snapshotter, force bool) error {
	if m.index.contains(frame) {
		return nil
	}

	if m.reserve(frame) {
		return m.captureReservedEntry(frame, snap, true)
	}

	head, hasHead := m.headFrame()
	if hasHead && frame <= head {
		if !m.needsGap(frame) {
			return nil
		}
		admitted, err := m.gap.Capture(frame, snap, m.onGapEvict, force)
		if err != nil {
			return err
		}
		if admitted {
			m.index.insert(frame)
		}
		return nil
	}

	admitted, err := m.current.Capture(frame, snap, m.onCurrentEvict, force)
	if err != nil {
		return err
	}
	if admitted {
		m.index.insert(frame)
	}
	return nil
}

// headFrame returns the newest frame across CurrentRing and
// RecentRing, without consulting the reserved map (reserved frames
// may lie ahead of the replay head).
func (m *Manager) headFrame() (uint32, bool) {
	var head uint32
	has := false
	if e, ok := m.current.Newest(); ok {
		head, has = e.Frame, true
	}
	if e, ok := m.recent.Newest(); ok {
		if !has || e.Frame > head {
			head, has = e.Frame, true
		}
	}
	return head, has
}

// needsGap reports whether frame falls in a genuinely sparse stretch
// of the timeline and therefore deserves a GapRing capture.
func (m *Manager) needsGap(frame uint32) bool {
	if frame == 0 {
		return false
	}
	freq := m.gap.RewindFrequency()
	if m.gap.Count() == 0 {
		freq = m.current.RewindFrequency()
	}
	nearest, ok := m.index.closestLE(frame - 1)
	if !ok {
		return true
	}
	lo := int64(frame) - int64(freq)
	return int64(nearest) <= lo
}

// onCurrentEvict is CurrentRing's eviction handler: the dropped entry
// is promoted directly to the reserved map if the caller wants it
// pinned, otherwise forced into RecentRing.
func (m *Manager) onCurrentEvict(e ring.Entry) {
	m.index.remove(e.Frame)

	if m.reserve(e.Frame) {
		m.promote(e.Frame, e.Bytes(), true)
		return
	}

	admitted, err := m.recent.Capture(e.Frame, bytesSnapshot(e.Bytes()), m.onRecentEvict, true)
	if err != nil {
		m.log.Debugf("demotion of frame %d to recent ring failed: %v", e.Frame, err)
		return
	}
	if admitted {
		m.index.insert(e.Frame)
	}
}

// onRecentEvict is RecentRing's eviction handler: the dropped entry is
// promoted to the reserved map under the ancient-anchor rule, or
// discarded.
func (m *Manager) onRecentEvict(e ring.Entry) {
	m.index.remove(e.Frame)

	if m.reserve(e.Frame) || !m.hasNearbyReserved(e.Frame) {
		m.promote(e.Frame, e.Bytes(), m.reserve(e.Frame))
		return
	}
	// otherwise the entry is simply discarded
}

// onGapEvict is GapRing's eviction handler: dropped entries are
// simply removed from the index.
func (m *Manager) onGapEvict(e ring.Entry) {
	m.index.remove(e.Frame)
}

// promote adds frame to the reserved map and the index.
// callerReserved marks whether this is a caller pin (exempt from
// ancient-spacing repair) as opposed to an auto-promoted anchor.
func (m *Manager) promote(frame uint32, data []byte, callerReserved bool) {
	m.reserved[frame] = reservedEntry{bytes: data, callerReserved: callerReserved}
	m.index.insert(frame)
	m.log.Debugf("promoted frame %d to reserved (caller=%v)", frame, callerReserved)
}

// hasNearbyReserved reports whether frame is within AncientInterval of
// an existing reserved key, or is itself close enough to the start of
// the movie to always count as near (frame 0 is always near).
func (m *Manager) hasNearbyReserved(frame uint32) bool {
	interval := m.settings.AncientInterval
	if frame < interval {
		return true
	}
	lo := int64(frame) - int64(interval)
	hi := int64(frame) + int64(interval)
	for k := range m.reserved {
		if int64(k) > lo && int64(k) < hi {
			return true
		}
	}
	return false
}

// captureReservedEntry writes a fresh snapshot directly into the
// reserved map, used both by the top-level Capture pipeline's
// caller-reservation step and by CaptureReserved.
func (m *Manager) captureReservedEntry(frame uint32, snap Snapshotter, callerReserved bool) error {
	var buf sliceWriter
	if snap != nil {
		if err := snap.Write(&buf); err != nil {
			return err
		}
	}
	m.promote(frame, buf.b, callerReserved)
	return nil
}

// CaptureReserved pins frame into the reserved map unconditionally,
// regardless of ReserveCallback. A no-op if the frame is already
// addressable anywhere.
func (m *Manager) CaptureReserved(frame uint32, snap Snapshotter) error {
	if m.index.contains(frame) {
		return nil
	}
	return m.captureReservedEntry(frame, snap, true)
}

// EvictReserved removes frame from the reserved map. Evicting frame 0
// fails with an InvalidOperation error; evicting an absent frame is
// not an error.
func (m *Manager) EvictReserved(frame uint32) error {
	if frame == 0 {
		return errInvalidOperation("EvictReserved: frame 0 can never be evicted")
	}
	if _, ok := m.reserved[frame]; !ok {
		return nil
	}
	delete(m.reserved, frame)
	m.index.remove(frame)
	return nil
}

// reservedFramesDescending returns the reserved map's keys in
// descending order, per §4.4's iteration-order requirement.
func (m *Manager) reservedFramesDescending() []uint32 {
	keys := make([]uint32, 0, len(m.reserved))
	for k := range m.reserved {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// Dispose releases the manager's ring arenas. Calling Dispose more
// than once is a no-op.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	m.current.Dispose()
	m.recent.Dispose()
	m.gap.Dispose()
	m.reserved = nil
	m.index = newFrameIndex()
	m.disposed = true
}

// bytesSnapshot adapts a plain byte slice to Snapshotter, used when
// re-writing bytes already held by one store into another during
// promotion/demotion.
func bytesSnapshot(b []byte) SnapshotFunc {
	return func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}
}
