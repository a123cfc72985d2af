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

// InvalidateAfter removes every snapshot with a frame strictly
// greater than frame. It is executed as three independent passes -
// Normal (CurrentRing/RecentRing), Gaps (GapRing) and Reserved - whose
// results are OR'ed together for the final report. Returns true iff
// anything was removed.
func (m *Manager) InvalidateAfter(frame int64) (bool, error) {
	if frame < 0 {
		return false, errOutOfRange("InvalidateAfter: frame must not be negative")
	}
	f := clampFrame(frame)

	removedNormal := m.invalidateNormal(f)
	removedGaps := m.invalidateGaps(f)
	removedReserved := m.invalidateReserved(f)

	if removedNormal || removedGaps || removedReserved {
		m.index.removeWhile(func(candidate uint32) bool { return candidate > f })
		m.log.Debugf("invalidated after frame %d", f)
		return true, nil
	}
	return false, nil
}

// invalidateNormal truncates RecentRing from the first entry beyond
// frame onward, and - since all of CurrentRing logically post-dates
// all of RecentRing - truncates the whole of CurrentRing whenever
// RecentRing had such an entry. If RecentRing has none, CurrentRing is
// scanned the same way on its own.
func (m *Manager) invalidateNormal(frame uint32) bool {
	if idx, ok := m.recent.FirstAfter(frame); ok {
		m.recent.InvalidateEnd(idx)
		m.current.InvalidateEnd(0)
		return true
	}
	if idx, ok := m.current.FirstAfter(frame); ok {
		m.current.InvalidateEnd(idx)
		return true
	}
	return false
}

func (m *Manager) invalidateGaps(frame uint32) bool {
	if idx, ok := m.gap.FirstAfter(frame); ok {
		m.gap.InvalidateEnd(idx)
		return true
	}
	return false
}

func (m *Manager) invalidateReserved(frame uint32) bool {
	removed := false
	for k := range m.reserved {
		if k > frame {
			delete(m.reserved, k)
			removed = true
		}
	}
	return removed
}

// Clear truncates all three rings to empty and resets the reserved
// map and frame index to hold only frame 0 (whose bytes are
// preserved).
func (m *Manager) Clear() {
	m.current.InvalidateEnd(0)
	m.recent.InvalidateEnd(0)
	m.gap.InvalidateEnd(0)

	zero := m.reserved[0]
	m.reserved = map[uint32]reservedEntry{0: zero}
	m.index.reset()
	m.log.Debugf("cache cleared")
}
