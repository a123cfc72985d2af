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

package state

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jetsetilly/zwinder/ring"
	"github.com/jetsetilly/zwinder/zlog"
)

// Save writes the manager's entire state - all three rings and the
// reserved map - to w. Settings are not included; Load requires them
// to be supplied again by the caller.
//
// Layout: CurrentRing blob, RecentRing blob, GapRing blob,
// ancient_interval (int32), reserved count (int32), then that many
// records of frame (int32), length (int32), bytes.
func (m *Manager) Save(w io.Writer) error {
	if err := m.current.WriteTo(w); err != nil {
		return fmt.Errorf("state: writing current ring: %w", err)
	}
	if err := m.recent.WriteTo(w); err != nil {
		return fmt.Errorf("state: writing recent ring: %w", err)
	}
	if err := m.gap.WriteTo(w); err != nil {
		return fmt.Errorf("state: writing gap ring: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(m.settings.AncientInterval)); err != nil {
		return fmt.Errorf("state: writing ancient interval: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(m.reserved))); err != nil {
		return fmt.Errorf("state: writing reserved count: %w", err)
	}
	for _, frame := range m.reservedFramesDescending() {
		e := m.reserved[frame]
		if err := binary.Write(w, binary.LittleEndian, int32(frame)); err != nil {
			return fmt.Errorf("state: writing reserved frame: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(e.bytes))); err != nil {
			return fmt.Errorf("state: writing reserved length: %w", err)
		}
		if _, err := w.Write(e.bytes); err != nil {
			return fmt.Errorf("state: writing reserved bytes: %w", err)
		}
	}
	return nil
}

// Load reconstructs a Manager from r, using settings and reserve for
// configuration and reservation policy exactly as New would. Loaded
// reserved entries (including any auto-promoted ancient anchors from
// the saved session) are all treated as caller-reserved going
// forward: the persisted format has no room to carry the
// caller-reserved/ancient-anchor distinction (spec.md §6.3 only
// commits to frame/length/bytes triples), and erring on the side of
// "pinned" avoids silently discarding a branch marker that happened to
// have been auto-promoted in the saved session.
func Load(r io.Reader, settings Settings, reserve ReserveCallback) (*Manager, error) {
	current, err := ring.Load(r)
	if err != nil {
		return nil, fmt.Errorf("state: loading current ring: %w", err)
	}
	recent, err := ring.Load(r)
	if err != nil {
		return nil, fmt.Errorf("state: loading recent ring: %w", err)
	}
	gap, err := ring.Load(r)
	if err != nil {
		return nil, fmt.Errorf("state: loading gap ring: %w", err)
	}
	current.Configure(settings.Current)
	recent.Configure(settings.Recent)
	gap.Configure(settings.Gap)

	var ancientInterval int32
	if err := binary.Read(r, binary.LittleEndian, &ancientInterval); err != nil {
		return nil, fmt.Errorf("state: reading ancient interval: %w", err)
	}

	var reservedCount int32
	if err := binary.Read(r, binary.LittleEndian, &reservedCount); err != nil {
		return nil, fmt.Errorf("state: reading reserved count: %w", err)
	}

	if reserve == nil {
		reserve = func(uint32) bool { return false }
	}

	m := &Manager{
		settings: settings,
		reserve:  reserve,
		current:  current,
		recent:   recent,
		gap:      gap,
		reserved: make(map[uint32]reservedEntry, reservedCount),
		index:    newFrameIndex(),
		log:      zlog.New("state"),
	}

	for i := int32(0); i < reservedCount; i++ {
		var frame, length int32
		if err := binary.Read(r, binary.LittleEndian, &frame); err != nil {
			return nil, fmt.Errorf("state: reading reserved frame: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("state: reading reserved length: %w", err)
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("state: reading reserved bytes: %w", err)
		}
		m.reserved[uint32(frame)] = reservedEntry{bytes: raw, callerReserved: true}
	}

	m.rebuildIndex()
	return m, nil
}
