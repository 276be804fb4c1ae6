// Copyright (c) 2025 Arcus Compute, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	tallyprom "github.com/uber-go/tally/prometheus"
	tallystatsd "github.com/uber-go/tally/statsd"
)

const (
	// TallyFlushInterval is the default flush interval for the root
	// metric scope
	TallyFlushInterval = 1 * time.Second
)

// Config will be containing the metrics configuration
type Config struct {
	Prometheus     *prometheusConfig `yaml:"prometheus"`
	Statsd         *statsdConfig     `yaml:"statsd"`
	RuntimeMetrics runtimeConfig     `yaml:"runtime_metrics"`
}

type prometheusConfig struct {
	Enable bool `yaml:"enable"`
}

type statsdConfig struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

type runtimeConfig struct {
	Enabled         bool          `yaml:"enabled"`
	CollectInterval time.Duration `yaml:"collect_interval"`
}

// InitMetricScope initializes a root scope and its closer, with a http
// server mux which serves /metrics and /health
func InitMetricScope(
	cfg *Config,
	rootMetricScope string,
	metricFlushInterval time.Duration) (tally.Scope, io.Closer, *nethttp.ServeMux) {
	// mux is used to mux together other (non-RPC) handlers, like metrics
	// exposition endpoints and logging level endpoints
	mux := nethttp.NewServeMux()
	var reporter tally.StatsReporter
	var cachedReporter tally.CachedStatsReporter
	var promHandler nethttp.Handler
	metricSeparator := "."
	if cfg.Prometheus != nil && cfg.Prometheus.Enable {
		// tally panics if scope name contains "-", hence force convert to "_"
		rootMetricScope = strings.Replace(rootMetricScope, "-", "_", -1)
		metricSeparator = "_"
		promReporter := tallyprom.NewReporter(tallyprom.Options{})
		cachedReporter = promReporter
		promHandler = promReporter.HTTPHandler()
	} else if cfg.Statsd != nil && cfg.Statsd.Enable {
		log.Infof("Metrics configured with statsd endpoint %s", cfg.Statsd.Endpoint)
		c, err := statsd.NewClient(cfg.Statsd.Endpoint, "")
		if err != nil {
			log.Fatalf("Unable to setup Statsd client: %v", err)
		}
		reporter = tallystatsd.NewReporter(c, tallystatsd.Options{})
	} else {
		log.Warnf("No metrics backends configured, using the statsd.NoopClient")
		c, _ := statsd.NewNoopClient()
		reporter = tallystatsd.NewReporter(c, tallystatsd.Options{})
	}

	if promHandler != nil {
		// if prometheus support is enabled, handle /metrics to serve prom metrics
		log.Infof("Setting up prometheus metrics handler at /metrics")
		mux.Handle("/metrics", promHandler)
	}
	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	metricScope, scopeCloser := tally.NewRootScope(
		tally.ScopeOptions{
			Prefix:         rootMetricScope,
			Tags:           map[string]string{},
			Reporter:       reporter,
			CachedReporter: cachedReporter,
			Separator:      metricSeparator,
		},
		metricFlushInterval)
	return metricScope, scopeCloser, mux
}
