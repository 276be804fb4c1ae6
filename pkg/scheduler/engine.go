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

package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"golang.org/x/time/rate"

	"github.com/arcus-compute/arcus/pkg/common/async"
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/hosts"
	tally_metrics "github.com/arcus-compute/arcus/pkg/scheduler/metrics"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
	"github.com/arcus-compute/arcus/pkg/scheduler/requests"
	"github.com/arcus-compute/arcus/pkg/scheduler/retry"
)

const (
	// _noRequestsTimeoutPenalty is the delay before the next round after
	// an empty dequeue.
	_noRequestsTimeoutPenalty = 1 * time.Second
	// _noHostStatesTimeoutPenalty is the delay before the next round when
	// the host tracker is unavailable.
	_noHostStatesTimeoutPenalty = 1 * time.Second
	// reason handed back with requests when no host states are available
	_hostStatesUnavailable = "host states unavailable"
)

// Engine represents a scheduler engine that can be started and stopped.
type Engine interface {
	Start()
	Stop()
}

// NewEngine creates a new scheduler engine running scheduling rounds off
// the request queue.
func NewEngine(
	parent tally.Scope,
	cfg *config.SchedulerConfig,
	scheduler *Scheduler,
	requestService requests.Service,
	hostService hosts.Service,
	tracker retry.Tracker,
	pool *async.Pool) Engine {
	result := &engine{
		config:         cfg,
		scheduler:      scheduler,
		requestService: requestService,
		hostService:    hostService,
		tracker:        tracker,
		pool:           pool,
		metrics:        tally_metrics.NewMetrics(parent.SubScope("engine")),
	}
	if cfg.DequeueRateLimit.Rate > 0 && cfg.DequeueRateLimit.Burst > 0 {
		result.limiter = rate.NewLimiter(
			cfg.DequeueRateLimit.Rate,
			cfg.DequeueRateLimit.Burst)
	}
	result.daemon = async.NewDaemon("Scheduler engine", result)
	return result
}

type engine struct {
	config         *config.SchedulerConfig
	metrics        *tally_metrics.Metrics
	scheduler      *Scheduler
	requestService requests.Service
	hostService    hosts.Service
	tracker        retry.Tracker
	pool           *async.Pool
	limiter        *rate.Limiter
	daemon         async.Daemon
}

func (e *engine) Start() {
	e.daemon.Start()
	e.metrics.Running.Update(1)
}

func (e *engine) Stop() {
	e.daemon.Stop()
	e.metrics.Running.Update(0)
}

func (e *engine) Run(ctx context.Context) error {
	log.WithField("dequeue_period", e.config.RequestDequeuePeriod.String()).
		WithField("dequeue_timeout", e.config.DequeueTimeout).
		WithField("dequeue_limit", e.config.RequestDequeueLimit).
		WithField("no_requests_delay", _noRequestsTimeoutPenalty).
		Info("Engine started")

	var delay time.Duration
	timer := time.NewTimer(e.config.RequestDequeuePeriod)
	for {
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		case <-timer.C:
		}

		delay = e.scheduleRound(ctx)
		log.WithField("delay", delay.String()).Debug("Scheduling delay")
		timer.Reset(delay)
	}
}

// scheduleRound runs one scheduling round: dequeue a batch of requests,
// snapshot host states once, and hand every request to a worker. Returns
// the delay to start the next round.
func (e *engine) scheduleRound(ctx context.Context) time.Duration {
	log.Debug("Beginning scheduling round")

	// enforce rate limit
	if e.limiter != nil && !e.limiter.Allow() {
		return _noRequestsTimeoutPenalty
	}

	dequeued := e.requestService.Dequeue(
		ctx,
		e.config.RequestDequeueLimit,
		e.config.DequeueTimeout)
	if len(dequeued) == 0 {
		e.metrics.RequestStarved.Inc(1)
		return _noRequestsTimeoutPenalty
	}

	states, err := e.hostService.GetHostStates(ctx)
	if err != nil {
		// Hand the batch back; the queue redelivers once the tracker is
		// reachable again.
		log.WithField("requests", len(dequeued)).WithError(err).
			Error("Failed to get host states")
		for _, request := range dequeued {
			e.requestService.Return(ctx, request.ID, _hostStatesUnavailable, false)
		}
		return _noHostStatesTimeoutPenalty
	}

	for _, request := range dequeued {
		request := request
		e.pool.Enqueue(async.JobFunc(func(ctx context.Context) {
			e.schedule(ctx, request, states)
		}))
	}
	return e.config.RequestDequeuePeriod
}

// schedule runs one request through retry bookkeeping, the placement
// loop and the placement commit. Workers share the round's host state
// snapshot; every invocation clones its own working set from it.
func (e *engine) schedule(
	ctx context.Context,
	request *models.Request,
	states []*models.HostState) {
	scheduleStart := time.Now()

	if err := e.tracker.Populate(request); err != nil {
		log.WithField("request_id", request.ID).WithError(err).
			Info("Request exhausted its scheduling attempts")
		e.requestService.Return(ctx, request.ID, err.Error(), true)
		return
	}

	selections, err := e.scheduler.Schedule(request, states)
	if err != nil {
		// No partial placements: the whole batch failed. Malformed
		// requests and placement failures are terminal; rescheduling
		// happens only when a started build fails on its host.
		log.WithField("request_id", request.ID).WithError(err).
			Info("Failed to place request")
		e.requestService.Return(ctx, request.ID, err.Error(), true)
		e.tracker.Forget(request.ID)
		return
	}

	// Record the selected hosts before committing, so a rescheduled
	// request does not land on a host that already failed it.
	for _, selection := range selections {
		e.tracker.AddAttempt(request.ID, selection.Hostname)
	}

	placements := []*requests.Placement{{
		RequestID:  request.ID,
		Selections: selections,
	}}
	if err := e.requestService.SetPlacements(ctx, placements); err != nil {
		// The queue redelivers the request once its lease expires. The
		// tracker entry keeps the attempted hosts excluded until then.
		return
	}

	// The committed selections carry everything the claim layer needs;
	// retry context for a failed build comes back in with the request.
	e.tracker.Forget(request.ID)
	e.metrics.SchedulingDuration.Record(time.Since(scheduleStart))
}
