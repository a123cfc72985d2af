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
	"sort"

	"github.com/jetsetilly/zwinder/ring"
)

// RingConfig is the admission cadence and byte budget for one of the
// three decaying rings.
type RingConfig = ring.Config

// Settings is the manager's value-typed configuration: the
// per-ring cadence/budget and the target spacing between
// auto-promoted ancient anchors. Settings are never themselves
// persisted (see Save/Load) - the caller supplies them afresh on
// every Load.
type Settings struct {
	Current         RingConfig
	Recent          RingConfig
	Gap             RingConfig
	AncientInterval uint32
}

// UpdateSettings installs new settings. Rings whose configuration is
// unchanged are kept as-is; rings whose configuration changed are
// rebuilt. If keepOldStates is true, every entry of a rebuilt ring is
// re-admitted into its replacement (forced, so cadence can't block the
// carry-over), diverting any entry the reservation policy wants pinned
// straight to the reserved map instead of letting it decay in the new
// ring. The reserved map is then repaired for the new ancient
// interval (or, if states aren't being kept, reset to just the
// caller-reserved keys), and the frame index is rebuilt from scratch.
func (m *Manager) UpdateSettings(newSettings Settings, keepOldStates bool) {
	oldInterval := m.settings.AncientInterval

	m.recent = m.rebuildRing(m.recent, newSettings.Recent, keepOldStates, m.onRecentEvict)
	m.gap = m.rebuildRing(m.gap, newSettings.Gap, keepOldStates, m.onGapEvict)
	m.current = m.rebuildRing(m.current, newSettings.Current, keepOldStates, m.onCurrentEvict)

	if keepOldStates {
		if newSettings.AncientInterval > oldInterval {
			m.repairAncientSpacing(newSettings.AncientInterval)
		}
	} else {
		m.resetAncients()
	}

	m.settings = newSettings
	m.rebuildIndex()

	m.log.Debugf("settings updated (keepOldStates=%v, ancientInterval=%d)", keepOldStates, newSettings.AncientInterval)
}

// rebuildRing returns old unchanged if its configuration already
// matches newCfg, otherwise builds and returns a fresh ring,
// optionally carrying old's entries over.
func (m *Manager) rebuildRing(old *ring.Buffer, newCfg RingConfig, keepOldStates bool, onEvict ring.EvictFunc) *ring.Buffer {
	if old != nil && old.MatchesSettings(newCfg) {
		return old
	}

	fresh := ring.New(newCfg)
	if keepOldStates && old != nil {
		for i := 0; i < old.Count(); i++ {
			e, ok := old.Get(i)
			if !ok {
				continue
			}
			if m.reserve(e.Frame) {
				m.promote(e.Frame, e.Bytes(), true)
				continue
			}
			_, _ = fresh.Capture(e.Frame, bytesSnapshot(e.Bytes()), onEvict, true)
		}
	}
	if old != nil {
		old.Dispose()
	}
	return fresh
}

// repairAncientSpacing walks the reserved map in ascending order and
// evicts any non-caller-reserved key that falls within newInterval of
// the last kept key, per spec.md §4.5.
func (m *Manager) repairAncientSpacing(newInterval uint32) {
	keys := make([]uint32, 0, len(m.reserved))
	for k := range m.reserved {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if len(keys) == 0 {
		return
	}

	lastKept := keys[0]
	for _, k := range keys[1:] {
		entry := m.reserved[k]
		if !entry.callerReserved && (k-lastKept) < newInterval {
			delete(m.reserved, k)
			continue
		}
		lastKept = k
	}
}

// resetAncients discards every auto-promoted reserved frame (anything
// other than frame 0 that isn't caller-reserved).
func (m *Manager) resetAncients() {
	for k, e := range m.reserved {
		if k != 0 && !e.callerReserved {
			delete(m.reserved, k)
		}
	}
}

// rebuildIndex discards and recomputes the frame index from the
// authoritative contents of the four stores.
func (m *Manager) rebuildIndex() {
	fresh := newFrameIndex()
	for i := 0; i < m.current.Count(); i++ {
		if e, ok := m.current.Get(i); ok {
			fresh.insert(e.Frame)
		}
	}
	for i := 0; i < m.recent.Count(); i++ {
		if e, ok := m.recent.Get(i); ok {
			fresh.insert(e.Frame)
		}
	}
	for i := 0; i < m.gap.Count(); i++ {
		if e, ok := m.gap.Get(i); ok {
			fresh.insert(e.Frame)
		}
	}
	for k := range m.reserved {
		fresh.insert(k)
	}
	m.index = fresh
}
