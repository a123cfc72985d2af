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

package state_test

import (
	"testing"

	"github.com/jetsetilly/zwinder/state"
)

func baseSettings() state.Settings {
	return state.Settings{
		Current: state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		Recent:  state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		Gap:     state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		AncientInterval: 10,
	}
}

func TestUpdateSettings_keepOldStatesCarriesEntriesOver(t *testing.T) {
	m := state.New(baseSettings(), nil)
	if err := m.Engage(byteSnapshot([]byte{0x00})); err != nil {
		t.Fatalf("engage: %v", err)
	}
	defer m.Dispose()

	for f := uint32(1); f <= 5; f++ {
		if err := m.Capture(f, frameSnapshot(f), false); err != nil {
			t.Fatalf("capture %d: %v", f, err)
		}
	}

	before := m.Count()

	wider := baseSettings()
	wider.Current.ByteBudget = 4096
	m.UpdateSettings(wider, true)

	if m.Count() != before {
		t.Fatalf("expected count to be preserved across keepOldStates update, got %d vs %d", m.Count(), before)
	}
	for f := uint32(0); f <= 5; f++ {
		if !m.HasState(f) {
			t.Fatalf("expected frame %d to survive keepOldStates update", f)
		}
	}
}

func TestUpdateSettings_discardOldStatesResetsAncients(t *testing.T) {
	// one-byte budgets on the current and recent rings push every
	// demoted frame through the ancient-anchor rule, so capturing up to
	// frame 52 with an ancient interval of 10 auto-promotes frames 10,
	// 20, 30, 40 and 50.
	small := baseSettings()
	small.Current.ByteBudget = 1
	small.Recent.ByteBudget = 1

	m := state.New(small, nil)
	if err := m.Engage(byteSnapshot([]byte{0x00})); err != nil {
		t.Fatalf("engage: %v", err)
	}
	defer m.Dispose()

	for f := uint32(1); f <= 52; f++ {
		if err := m.Capture(f, frameSnapshot(f), false); err != nil {
			t.Fatalf("capture %d: %v", f, err)
		}
	}
	if !m.HasState(50) {
		t.Fatalf("expected frame 50 to be promoted as an ancient anchor")
	}

	m.UpdateSettings(baseSettings(), false)

	if m.HasState(50) {
		t.Fatalf("expected non-caller-reserved ancient anchor to be discarded on full reset")
	}
	if !m.HasState(0) {
		t.Fatalf("expected frame 0 to survive a full settings reset")
	}
}

func TestUpdateSettings_unchangedRingIsKeptInPlace(t *testing.T) {
	m := state.New(baseSettings(), nil)
	if err := m.Engage(byteSnapshot([]byte{0x00})); err != nil {
		t.Fatalf("engage: %v", err)
	}
	defer m.Dispose()

	for f := uint32(1); f <= 3; f++ {
		if err := m.Capture(f, frameSnapshot(f), false); err != nil {
			t.Fatalf("capture %d: %v", f, err)
		}
	}

	// same settings value: UpdateSettings must be a cheap no-op on ring
	// identity, verified indirectly through preserved state.
	m.UpdateSettings(baseSettings(), false)
	for f := uint32(0); f <= 3; f++ {
		if !m.HasState(f) {
			t.Fatalf("expected frame %d to survive a no-op settings update", f)
		}
	}
}
