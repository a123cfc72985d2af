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

// Package zwstats exposes the live health of a state.Manager as
// Prometheus gauges, and - when built with the +statsview constraint,
// exactly as the teacher repo gated its own runtime stats server -
// serves them alongside a "github.com/go-echarts/statsview" graphical
// view.
//
//	After launch, graphical statistics will be viewable at:
//
//		localhost:12600/debug/statsview
//
//	And Prometheus metrics available at:
//
//		localhost:12601/metrics
package zwstats
