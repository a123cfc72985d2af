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

// Package config loads cache Settings from a TOML file. Settings
// themselves are never part of the persisted cache format (see
// state.Save/state.Load) - this package exists purely as the ambient
// "configuration" concern a host process wires up once at startup,
// the way the teacher's rewind.Preferences wired its own two tunables
// (maxEntries, snapshotFreq) into its disk-backed prefs system.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jetsetilly/zwinder/state"
)

// Defaults mirror the teacher's rewind.Preferences constants
// (maxEntries 100, snapshotFreq 1), generalised across three rings
// and an ancient interval. ByteBudget has no teacher-side equivalent
// (the teacher caps entry count, not bytes) - the defaults below
// assume a modest few hundred kilobytes per VCS snapshot.
func Defaults() state.Settings {
	return state.Settings{
		Current: state.RingConfig{RewindFrequency: 1, ByteBudget: 32 * 1024 * 1024},
		Recent:  state.RingConfig{RewindFrequency: 10, ByteBudget: 16 * 1024 * 1024},
		Gap:     state.RingConfig{RewindFrequency: 10, ByteBudget: 8 * 1024 * 1024},
		AncientInterval: 3600,
	}
}

// fileFormat mirrors the on-disk TOML shape. Field names are
// lowercase to match typical TOML style in the retrieved pack
// (danmuck-dps_files's smplog config).
type fileFormat struct {
	Current ringFormat `toml:"current"`
	Recent  ringFormat `toml:"recent"`
	Gap     ringFormat `toml:"gap"`
	AncientInterval uint32 `toml:"ancient_interval"`
}

type ringFormat struct {
	RewindFrequency uint32 `toml:"rewind_frequency"`
	ByteBudget      uint64 `toml:"byte_budget"`
}

// Load reads Settings from a TOML file at path. Any field absent from
// the file keeps its Defaults() value.
func Load(path string) (state.Settings, error) {
	settings := Defaults()

	var f fileFormat
	f.Current = ringFormat(settings.Current)
	f.Recent = ringFormat(settings.Recent)
	f.Gap = ringFormat(settings.Gap)
	f.AncientInterval = settings.AncientInterval

	if _, err := toml.DecodeFile(path, &f); err != nil {
		return state.Settings{}, fmt.Errorf("config: %w", err)
	}

	return state.Settings{
		Current:         state.RingConfig(f.Current),
		Recent:          state.RingConfig(f.Recent),
		Gap:             state.RingConfig(f.Gap),
		AncientInterval: f.AncientInterval,
	}, nil
}
