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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jetsetilly/zwinder/state"
)

// engageCommand exercises Engage in isolation, for sanity-checking a
// configuration before a longer scripted run.
func engageCommand() *cli.Command {
	return &cli.Command{
		Name:  "engage",
		Usage: "engage a cache and report frame 0's reservation",
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()
			getLogger(c).Infof("engaged: last=%d count=%d", m.Last(), m.Count())
			return nil
		},
	}
}

// captureCommand drives a single Capture call against a freshly
// engaged manager - mostly useful chained with "scenario" for anything
// beyond a one-frame smoke test.
func captureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "capture a single synthetic frame",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "frame", Required: true},
			&cli.BoolFlag{Name: "force"},
		},
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()

			frame := uint32(c.Uint64("frame"))
			if err := m.Capture(frame, syntheticSnapshot(frame), c.Bool("force")); err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			getLogger(c).Infof("captured frame %d: has=%v last=%d", frame, m.HasState(frame), m.Last())
			return nil
		},
	}
}

// getClosestCommand exercises GetClosest and logs the resolved frame
// and the length of its snapshot.
func getClosestCommand() *cli.Command {
	return &cli.Command{
		Name:  "get-closest",
		Usage: "resolve the closest state at-or-before a frame",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "frame", Required: true},
		},
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()

			f, r, err := m.GetClosest(c.Int64("frame"))
			if err != nil {
				return fmt.Errorf("get-closest: %w", err)
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("get-closest: reading snapshot: %w", err)
			}
			getLogger(c).Infof("resolved frame %d (%d bytes)", f, len(b))
			return nil
		},
	}
}

// reserveCommand exercises CaptureReserved / EvictReserved.
func reserveCommand() *cli.Command {
	return &cli.Command{
		Name:  "reserve",
		Usage: "pin or unpin a frame in the reserved map",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "frame", Required: true},
			&cli.BoolFlag{Name: "evict", Usage: "evict instead of pin"},
		},
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()

			frame := uint32(c.Uint64("frame"))
			if c.Bool("evict") {
				if err := m.EvictReserved(frame); err != nil {
					return fmt.Errorf("evict-reserved: %w", err)
				}
				getLogger(c).Infof("evicted reservation at frame %d", frame)
				return nil
			}
			if err := m.CaptureReserved(frame, syntheticSnapshot(frame)); err != nil {
				return fmt.Errorf("capture-reserved: %w", err)
			}
			getLogger(c).Infof("reserved frame %d", frame)
			return nil
		},
	}
}

// saveCommand runs a short scripted capture sequence and persists the
// resulting manager to the --session file.
func saveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "capture a short synthetic sequence and save it",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "frames", Value: 100, Usage: "number of frames to synthesize"},
		},
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()

			n := c.Uint64("frames")
			for f := uint64(1); f <= n; f++ {
				frame := uint32(f)
				if err := m.Capture(frame, syntheticSnapshot(frame), false); err != nil {
					return fmt.Errorf("capture: %w", err)
				}
			}

			out, err := os.Create(c.String("session"))
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			defer out.Close()

			if err := m.Save(out); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			getLogger(c).Infof("saved %d frames to %s", m.Count(), c.String("session"))
			return nil
		},
	}
}

// loadCommand reloads a manager from the --session file and reports
// its shape.
func loadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "load a saved session and report its shape",
		Action: func(c *cli.Context) error {
			settings, err := settingsFromContext(c)
			if err != nil {
				return err
			}

			in, err := os.Open(c.String("session"))
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			defer in.Close()

			m, err := state.Load(in, settings, nil)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			defer m.Dispose()

			getLogger(c).Infof("loaded: current=%d recent=%d gap=%d reserved=%d last=%d",
				m.CurrentLen(), m.RecentLen(), m.GapLen(), m.ReservedLen(), m.Last())
			return nil
		},
	}
}

// scenarioCommand runs a longer synthetic capture/rewind/invalidate
// sequence in one process, useful as a smoke test of the cascade
// policy without needing a real emulator host.
func scenarioCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenario",
		Usage: "run a scripted capture/rewind/invalidate sequence",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "frames", Value: 5000},
		},
		Action: func(c *cli.Context) error {
			m, err := newManager(c)
			if err != nil {
				return err
			}
			defer m.Dispose()

			log := getLogger(c)
			n := c.Uint64("frames")

			for f := uint64(1); f <= n; f++ {
				frame := uint32(f)
				if err := m.Capture(frame, syntheticSnapshot(frame), false); err != nil {
					return fmt.Errorf("capture: %w", err)
				}
			}
			log.Infof("forward pass done: current=%d recent=%d gap=%d reserved=%d",
				m.CurrentLen(), m.RecentLen(), m.GapLen(), m.ReservedLen())

			rewindTo := int64(n / 2)
			f, _, err := m.GetClosest(rewindTo)
			if err != nil {
				return fmt.Errorf("rewind: %w", err)
			}
			log.Infof("rewound to frame %d (requested %d)", f, rewindTo)

			changed, err := m.InvalidateAfter(int64(f))
			if err != nil {
				return fmt.Errorf("invalidate: %w", err)
			}
			log.Infof("invalidated after frame %d: changed=%v last=%d", f, changed, m.Last())

			for f := f + 1; uint64(f) <= n; f++ {
				if err := m.Capture(f, syntheticSnapshot(f), false); err != nil {
					return fmt.Errorf("branch capture: %w", err)
				}
			}
			log.Infof("branch pass done: current=%d recent=%d gap=%d reserved=%d",
				m.CurrentLen(), m.RecentLen(), m.GapLen(), m.ReservedLen())
			return nil
		},
	}
}
