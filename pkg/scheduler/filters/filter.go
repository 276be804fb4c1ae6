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

// Package filters implements the predicate half of the scheduler: every
// configured filter must admit a host before it is weighed. A rejection
// is a normal verdict, not an error; the chain counts eliminations per
// filter so an empty result can explain itself.
package filters

import (
	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

// StageCount records how many hosts one filter eliminated in a chain run.
type StageCount struct {
	Filter     string `json:"filter"`
	Considered int    `json:"considered"`
	Eliminated int    `json:"eliminated"`
}

// Filter decides whether a single host can serve a request.
type Filter interface {
	// Name returns the stable name the filter is configured by.
	Name() string

	// RunOncePerRequest reports whether the filter's verdict cannot
	// change between the instances of one request. Such filters run for
	// the first instance only; later iterations reuse the verdict by
	// operating on the surviving host set.
	RunOncePerRequest() bool

	// Passes returns whether the host can serve one more instance of
	// the request.
	Passes(host *models.HostState, request *models.Request) bool
}

// Chain applies filters in configured order.
type Chain struct {
	filters []Filter
}

// NewChain creates a Chain running the given filters in order.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Run returns the hosts passing every filter for the iteration-th
// instance of the request, preserving input order, together with the
// per-filter elimination counts. Iteration-independent filters are
// skipped after the first iteration. Filtering stops early once no host
// survives.
func (c *Chain) Run(
	hosts []*models.HostState,
	request *models.Request,
	iteration int) ([]*models.HostState, []StageCount) {
	stages := make([]StageCount, 0, len(c.filters))
	for _, filter := range c.filters {
		if iteration > 0 && filter.RunOncePerRequest() {
			continue
		}
		passed := make([]*models.HostState, 0, len(hosts))
		for _, host := range hosts {
			if filter.Passes(host, request) {
				passed = append(passed, host)
			}
		}
		stage := StageCount{
			Filter:     filter.Name(),
			Considered: len(hosts),
			Eliminated: len(hosts) - len(passed),
		}
		stages = append(stages, stage)
		if stage.Eliminated > 0 {
			log.WithFields(log.Fields{
				"filter":     stage.Filter,
				"request_id": request.ID,
				"considered": stage.Considered,
				"eliminated": stage.Eliminated,
			}).Debug("Filter eliminated hosts")
		}
		hosts = passed
		if len(hosts) == 0 {
			break
		}
	}
	return hosts, stages
}

// ensureLimits returns the host's request-scoped limits, allocating
// them on first use.
func ensureLimits(host *models.HostState) *models.Limits {
	if host.Limits == nil {
		host.Limits = &models.Limits{}
	}
	return host.Limits
}
