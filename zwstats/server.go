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

//go:build statsview
// +build statsview

package zwstats

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jetsetilly/zwinder/state"
)

// Address is the host:port the statsview dashboard listens on. It
// matches the teacher's own statsview.Address, which runs its own
// http.Server internally - MetricsAddress below must be a distinct
// port, since statsview doesn't expose its mux for us to extend.
const Address = "localhost:12600"
const statsURL = "/debug/statsview"

// MetricsAddress is the host:port the Prometheus handler listens on.
const MetricsAddress = "localhost:12601"
const metricsURL = "/metrics"

// Launch starts a goroutine running the statsview viewer (runtime
// stats, exactly as the teacher's own statsview.Launch did) plus a
// Prometheus handler scraping manager's cache-health gauges.
func Launch(output io.Writer, manager *state.Manager) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(manager))

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle(metricsURL, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		http.ListenAndServe(MetricsAddress, mux) //nolint:errcheck
	}()

	output.Write([]byte(fmt.Sprintf("stats server available at %s%s and %s%s\n", Address, statsURL, MetricsAddress, metricsURL)))
}

// Available returns true if a stats server is available to launch.
func Available() bool {
	return true
}
