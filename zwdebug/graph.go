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

// Package zwdebug dumps the live internal structure of a state.Manager
// as a Graphviz dot graph, using "github.com/bradleyjkemp/memviz" - a
// dependency the teacher repo carried but never wired into any
// reachable code path. Walking a Manager's rings, reserved map and
// frame index this way is useful when chasing a cascade-eviction bug
// that is hard to reason about from counts alone.
package zwdebug

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/zwinder/state"
)

// DumpGraph writes a dot-format graph of manager's internal state to w.
// The output can be piped to "dot -Tpng" for a visual rendering of the
// current/recent/gap rings, the reserved map and the frame index.
func DumpGraph(w io.Writer, manager *state.Manager) {
	memviz.Map(w, manager)
}
