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
	"bytes"
	"testing"

	"github.com/jetsetilly/zwinder/state"
)

func TestSaveLoad_roundTrip(t *testing.T) {
	settings := state.Settings{
		Current: state.RingConfig{RewindFrequency: 1, ByteBudget: 4},
		Recent:  state.RingConfig{RewindFrequency: 1, ByteBudget: 2},
		Gap:     state.RingConfig{RewindFrequency: 1, ByteBudget: 2},
		AncientInterval: 10,
	}
	m := state.New(settings, nil)
	if err := m.Engage(byteSnapshot([]byte{0x00})); err != nil {
		t.Fatalf("engage: %v", err)
	}
	defer m.Dispose()

	for f := uint32(1); f <= 10; f++ {
		if err := m.Capture(f, frameSnapshot(f), false); err != nil {
			t.Fatalf("capture %d: %v", f, err)
		}
	}

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := state.Load(&buf, settings, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer loaded.Dispose()

	if loaded.Count() != m.Count() {
		t.Fatalf("expected count %d after round-trip, got %d", m.Count(), loaded.Count())
	}
	if loaded.Last() != m.Last() {
		t.Fatalf("expected last() %d after round-trip, got %d", m.Last(), loaded.Last())
	}
	for f := uint32(0); f <= 10; f++ {
		if m.HasState(f) != loaded.HasState(f) {
			t.Fatalf("frame %d membership diverged after round-trip", f)
		}
		if m.HasState(f) && !bytes.Equal(m.At(f), loaded.At(f)) {
			t.Fatalf("frame %d bytes diverged after round-trip: %v vs %v", f, m.At(f), loaded.At(f))
		}
	}
}

func TestSaveLoad_reservedSurvivesRoundTrip(t *testing.T) {
	settings := state.Settings{
		Current: state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		Recent:  state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		Gap:     state.RingConfig{RewindFrequency: 1, ByteBudget: 1024},
		AncientInterval: 10,
	}
	m := state.New(settings, nil)
	if err := m.Engage(byteSnapshot([]byte{0x00})); err != nil {
		t.Fatalf("engage: %v", err)
	}
	defer m.Dispose()

	if err := m.CaptureReserved(77, frameSnapshot(77)); err != nil {
		t.Fatalf("capture-reserved: %v", err)
	}

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := state.Load(&buf, settings, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer loaded.Dispose()

	if !loaded.HasState(77) {
		t.Fatalf("expected reserved frame 77 to survive round-trip")
	}
	if err := loaded.EvictReserved(77); err != nil {
		t.Fatalf("expected loaded reserved entry to be evictable: %v", err)
	}
}
