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

// zwindercli is a small inspection and exercise tool for a Zwinder
// cache, driving Engage/Capture/GetClosest/Save/Load against a
// synthetic snapshotter from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jetsetilly/zwinder/zlog"
)

func main() {
	app := App()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "zwindercli: %v\n", err)
		os.Exit(1)
	}
}

// App creates the zwindercli CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:  "zwindercli",
		Usage: "inspect and exercise a Zwinder frame-state cache",
		Flags: globalFlags(),
		Before: func(c *cli.Context) error {
			c.App.Metadata["log"] = zlog.New("zwindercli")
			return nil
		},
		Commands: []*cli.Command{
			engageCommand(),
			captureCommand(),
			getClosestCommand(),
			reserveCommand(),
			saveCommand(),
			loadCommand(),
			scenarioCommand(),
		},
	}
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a zwinder.toml configuration file",
			EnvVars: []string{"ZWINDER_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "session",
			Aliases: []string{"f"},
			Usage:   "path to a saved session file used by save/load",
			Value:   "zwinder.session",
			EnvVars: []string{"ZWINDER_SESSION"},
		},
	}
}

func getLogger(c *cli.Context) zlog.Logger {
	if l, ok := c.App.Metadata["log"].(zlog.Logger); ok {
		return l
	}
	return zlog.New("zwindercli")
}
