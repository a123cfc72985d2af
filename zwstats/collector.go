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

package zwstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jetsetilly/zwinder/state"
)

// Collector is a prometheus.Collector over a *state.Manager's
// read-only counts. It samples the manager at scrape time rather than
// being incremented from inside Manager itself, so wiring it up
// imposes no per-Capture overhead on the cache's hot path.
type Collector struct {
	manager *state.Manager

	current  *prometheus.Desc
	recent   *prometheus.Desc
	gap      *prometheus.Desc
	reserved *prometheus.Desc
	total    *prometheus.Desc
}

// NewCollector returns a Collector over manager.
func NewCollector(manager *state.Manager) *Collector {
	return &Collector{
		manager:  manager,
		current:  prometheus.NewDesc("zwinder_current_entries", "number of states held in the current ring", nil, nil),
		recent:   prometheus.NewDesc("zwinder_recent_entries", "number of states held in the recent ring", nil, nil),
		gap:      prometheus.NewDesc("zwinder_gap_entries", "number of states held in the gap ring", nil, nil),
		reserved: prometheus.NewDesc("zwinder_reserved_entries", "number of states held in the reserved map", nil, nil),
		total:    prometheus.NewDesc("zwinder_total_entries", "total number of addressable states across every store", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.current
	ch <- c.recent
	ch <- c.gap
	ch <- c.reserved
	ch <- c.total
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.current, prometheus.GaugeValue, float64(c.manager.CurrentLen()))
	ch <- prometheus.MustNewConstMetric(c.recent, prometheus.GaugeValue, float64(c.manager.RecentLen()))
	ch <- prometheus.MustNewConstMetric(c.gap, prometheus.GaugeValue, float64(c.manager.GapLen()))
	ch <- prometheus.MustNewConstMetric(c.reserved, prometheus.GaugeValue, float64(c.manager.ReservedLen()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(c.manager.Count()))
}
