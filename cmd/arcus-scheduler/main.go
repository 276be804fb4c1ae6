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

package main

import (
	"os"
	"time"

	"github.com/arcus-compute/arcus/pkg/common"
	"github.com/arcus-compute/arcus/pkg/common/async"
	"github.com/arcus-compute/arcus/pkg/common/buildversion"
	common_config "github.com/arcus-compute/arcus/pkg/common/config"
	"github.com/arcus-compute/arcus/pkg/common/health"
	"github.com/arcus-compute/arcus/pkg/common/logging"
	"github.com/arcus-compute/arcus/pkg/common/metrics"
	"github.com/arcus-compute/arcus/pkg/common/rpc"
	"github.com/arcus-compute/arcus/pkg/scheduler"
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/filters"
	"github.com/arcus-compute/arcus/pkg/scheduler/hosts"
	tally_metrics "github.com/arcus-compute/arcus/pkg/scheduler/metrics"
	"github.com/arcus-compute/arcus/pkg/scheduler/requests"
	"github.com/arcus-compute/arcus/pkg/scheduler/retry"
	"github.com/arcus-compute/arcus/pkg/scheduler/weights"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/encoding/json"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	version string
	app     = kingpin.New("arcus-scheduler", "Arcus Host Placement Scheduler")

	debug = app.Flag(
		"debug", "enable debug mode (print full json responses)").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	httpPort = app.Flag(
		"http-port",
		"Scheduler HTTP port (scheduler.http_port override) "+
			"(set $HTTP_PORT to override)").
		Envar("HTTP_PORT").
		Int()

	hostTrackerURL = app.Flag(
		"host-tracker-url",
		"Host tracker address (scheduler.host_tracker_url override) "+
			"(set $HOST_TRACKER_URL to override)").
		Envar("HOST_TRACKER_URL").
		String()

	requestQueueURL = app.Flag(
		"request-queue-url",
		"Request queue address (scheduler.request_queue_url override) "+
			"(set $REQUEST_QUEUE_URL to override)").
		Envar("REQUEST_QUEUE_URL").
		String()

	requestDequeueLimit = app.Flag(
		"request-dequeue-limit", "Number of placement requests to dequeue").
		Envar("REQUEST_DEQUEUE_LIMIT").
		Int()

	requestDequeuePeriod = app.Flag(
		"request-dequeue-period",
		"Period at which requests are dequeued to be scheduled in seconds").
		Envar("REQUEST_DEQUEUE_PERIOD").
		Default("0").
		Int()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &log.JSONFormatter{},
			Fields: log.Fields{
				common.AppLogField: app.Name,
			},
		},
	)

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	log.SetLevel(initialLevel)

	log.WithField("files", *cfgFiles).
		Info("Loading scheduler config")
	var cfg config.Config
	if err := common_config.Parse(&cfg, *cfgFiles...); err != nil {
		log.WithField("error", err).Fatal("Cannot parse yaml config")
	}

	// now, override any CLI flags in the loaded config.Config
	if *httpPort != 0 {
		cfg.Scheduler.HTTPPort = *httpPort
	}

	if *hostTrackerURL != "" {
		cfg.Scheduler.HostTrackerURL = *hostTrackerURL
	}

	if *requestQueueURL != "" {
		cfg.Scheduler.RequestQueueURL = *requestQueueURL
	}

	if *requestDequeueLimit != 0 {
		cfg.Scheduler.RequestDequeueLimit = *requestDequeueLimit
	}

	if *requestDequeuePeriod != 0 {
		cfg.Scheduler.RequestDequeuePeriod =
			time.Duration(*requestDequeuePeriod) * time.Second
	}

	cfg.Scheduler.Normalize()

	log.WithField("config", cfg).
		Info("Completed loading scheduler config")

	rootScope, scopeCloser, mux := metrics.InitMetricScope(
		&cfg.Metrics,
		common.ArcusScheduler,
		metrics.TallyFlushInterval,
	)
	defer scopeCloser.Close()

	mux.HandleFunc(logging.LevelOverwrite, logging.LevelOverwriteHandler(initialLevel))
	mux.HandleFunc(buildversion.Get, buildversion.Handler(version))

	t := rpc.NewTransport()

	outbounds := yarpc.Outbounds{
		common.ArcusHostTracker: transport.Outbounds{
			Unary: t.NewSingleOutbound(cfg.Scheduler.HostTrackerURL),
		},
		common.ArcusRequestQueue: transport.Outbounds{
			Unary: t.NewSingleOutbound(cfg.Scheduler.RequestQueueURL),
		},
	}

	inbounds := rpc.NewInbounds(cfg.Scheduler.HTTPPort, mux)

	log.Debug("Creating new YARPC dispatcher")
	dispatcher := yarpc.NewDispatcher(yarpc.Config{
		Name:      common.ArcusScheduler,
		Inbounds:  inbounds,
		Outbounds: outbounds,
		Metrics: yarpc.MetricsConfig{
			Tally: rootScope,
		},
	})

	log.Debug("Starting YARPC dispatcher")
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Unable to start dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	tallyMetrics := tally_metrics.NewMetrics(
		rootScope.SubScope("scheduler"))
	hostService := hosts.NewService(
		json.New(dispatcher.ClientConfig(common.ArcusHostTracker)),
		tallyMetrics,
	)
	requestService := requests.NewService(
		json.New(dispatcher.ClientConfig(common.ArcusRequestQueue)),
		tallyMetrics,
	)

	filters.Init()
	weights.Init()

	placer, err := scheduler.New(&cfg.Scheduler)
	if err != nil {
		log.WithError(err).Fatal("Cannot build the scheduling pipeline")
	}

	pool := async.NewPool(async.PoolOptions{
		MaxWorkers: cfg.Scheduler.Concurrency,
	}, nil)
	pool.Start()

	engine := scheduler.NewEngine(
		rootScope,
		&cfg.Scheduler,
		placer,
		requestService,
		hostService,
		retry.NewTracker(cfg.Scheduler.MaxAttempts),
		pool,
	)
	log.Info("Start the scheduler engine")
	engine.Start()
	defer engine.Stop()

	log.Info("Initialize the Heartbeat process")
	// we can *honestly* say the server is booted up now
	health.InitHeartbeat(rootScope, cfg.Health)

	// start collecting runtime metrics
	defer metrics.StartCollectingRuntimeMetrics(
		rootScope,
		cfg.Metrics.RuntimeMetrics.Enabled,
		cfg.Metrics.RuntimeMetrics.CollectInterval)()

	select {}
}
