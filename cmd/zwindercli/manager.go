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

package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/jetsetilly/zwinder/config"
	"github.com/jetsetilly/zwinder/state"
)

// settingsFromContext loads Settings from the --config flag, falling
// back to config.Defaults() when the flag is unset.
func settingsFromContext(c *cli.Context) (state.Settings, error) {
	path := c.String("config")
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// newManager builds a freshly engaged Manager for this invocation. No
// ReserveCallback is installed - zwindercli's scripted commands pin
// frames explicitly via CaptureReserved instead.
func newManager(c *cli.Context) (*state.Manager, error) {
	settings, err := settingsFromContext(c)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	m := state.New(settings, nil)
	if err := m.Engage(syntheticSnapshot(0)); err != nil {
		return nil, fmt.Errorf("engaging cache: %w", err)
	}
	return m, nil
}

// syntheticSnapshot produces a uniquely identifiable stand-in for a
// real emulator snapshot: the frame number followed by a fresh UUIDv4
// correlation tag, so two invocations of the same command
// never produce byte-identical entries that would mask a cache bug.
func syntheticSnapshot(frame uint32) state.SnapshotFunc {
	return func(w io.Writer) error {
		id := uuid.New()
		_, err := fmt.Fprintf(w, "frame=%d correlation=%s", frame, id.String())
		return err
	}
}
