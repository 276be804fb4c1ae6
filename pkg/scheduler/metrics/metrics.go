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
	"github.com/uber-go/tally"
)

// Metrics contains all the metrics relevant to the scheduler engine.
type Metrics struct {
	// Running indicates if the scheduler engine is currently running or not.
	Running tally.Gauge

	// RequestsDequeued is the number of placement requests the last dequeue
	// round pulled off the queue.
	RequestsDequeued tally.Gauge
	// RequestStarved counts the dequeue rounds that came back empty.
	RequestStarved tally.Counter

	// HostStatesGet counts successful host state fetches from the tracker,
	// HostStatesGetFail the failed ones.
	HostStatesGet     tally.Counter
	HostStatesGetFail tally.Counter

	// Placed is the number of requests placed onto hosts and committed back
	// to the queue. PlaceFail counts requests whose commit failed.
	Placed    tally.Counter
	PlaceFail tally.Counter
	// Returned counts requests handed back to the queue unplaced, with a
	// reason, either to be retried or failed for good.
	Returned tally.Counter

	// SchedulingDuration records the latency of one full scheduling pass
	// over a request, dequeue to commit.
	SchedulingDuration tally.Timer
	// SetPlacementsDuration records the latency of committing placements
	// back to the request queue.
	SetPlacementsDuration tally.Timer
}

// NewMetrics returns a new Metrics struct with all metrics initialized and
// rooted below the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	requestScope := scope.SubScope("request")
	hostScope := scope.SubScope("host")

	requestSuccessScope := requestScope.Tagged(map[string]string{"type": "success"})
	requestFailScope := requestScope.Tagged(map[string]string{"type": "fail"})
	hostSuccessScope := hostScope.Tagged(map[string]string{"type": "success"})
	hostFailScope := hostScope.Tagged(map[string]string{"type": "fail"})

	return &Metrics{
		Running: scope.Gauge("running"),

		RequestsDequeued: requestScope.Gauge("dequeued"),
		RequestStarved:   requestScope.Counter("starved"),

		HostStatesGet:     hostSuccessScope.Counter("states_get"),
		HostStatesGetFail: hostFailScope.Counter("states_get"),

		Placed:    requestSuccessScope.Counter("placed"),
		PlaceFail: requestFailScope.Counter("placed"),
		Returned:  requestScope.Counter("returned"),

		SchedulingDuration:    requestScope.Timer("scheduling_duration"),
		SetPlacementsDuration: requestScope.Timer("set_placements_duration"),
	}
}
