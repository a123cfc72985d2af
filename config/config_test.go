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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/zwinder/config"
)

func TestLoad_overridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zwinder.toml")

	contents := `
ancient_interval = 120

[current]
rewind_frequency = 1
byte_budget = 1048576

[recent]
rewind_frequency = 5
byte_budget = 2097152

[gap]
rewind_frequency = 5
byte_budget = 524288
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if settings.AncientInterval != 120 {
		t.Fatalf("expected ancient interval 120, got %d", settings.AncientInterval)
	}
	if settings.Current.ByteBudget != 1048576 {
		t.Fatalf("expected current byte budget 1048576, got %d", settings.Current.ByteBudget)
	}
	if settings.Recent.RewindFrequency != 5 {
		t.Fatalf("expected recent rewind frequency 5, got %d", settings.Recent.RewindFrequency)
	}
}

func TestDefaults_nonZero(t *testing.T) {
	d := config.Defaults()
	if d.AncientInterval == 0 {
		t.Fatalf("expected a non-zero default ancient interval")
	}
	if d.Current.ByteBudget == 0 || d.Recent.ByteBudget == 0 || d.Gap.ByteBudget == 0 {
		t.Fatalf("expected non-zero default byte budgets")
	}
}
