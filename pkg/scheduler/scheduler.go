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

// Package scheduler places instance requests onto compute hosts: a
// request and a set of host state snapshots go in, an ordered list of
// per-instance host selections comes out. Hosts pass through a
// configurable filter chain and are ranked by a weigher pipeline; the
// engine in this package drives the loop against the external request
// queue and host tracker.
package scheduler

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/filters"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
	"github.com/arcus-compute/arcus/pkg/scheduler/weights"
)

// Scheduler maps one placement request onto an ordered list of host
// selections by funneling a host snapshot set through the configured
// filter chain and weigher pipeline, once per requested instance.
type Scheduler struct {
	chain    *filters.Chain
	weighers *weights.Handler
}

// New creates a Scheduler from the pipeline configuration. Unknown
// filter and weigher names are all reported at once via
// ConfigurationError.
func New(cfg *config.SchedulerConfig) (*Scheduler, error) {
	enabledFilters, ferr := filters.New(&cfg.Filters)
	enabledWeighers, werr := weights.New(&cfg.Weights)
	if err := multierr.Combine(ferr, werr); err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return &Scheduler{
		chain:    filters.NewChain(enabledFilters...),
		weighers: weights.NewHandler(enabledWeighers...),
	}, nil
}

// Schedule places every instance of the request and returns one
// selection per instance, in placement order. The host states are
// cloned into an invocation-local arena first: the caller's snapshots
// are never written to, and repeating an invocation over the same
// inputs returns the same selections. Placement is batch atomic; when
// any instance runs out of candidates the whole request fails with
// NoValidHostError and no selection is kept.
func (s *Scheduler) Schedule(
	request *models.Request,
	states []*models.HostState) ([]*models.Selection, error) {
	if request.Hints != nil {
		if err := filters.ValidateQuery(request.Hints.Query); err != nil {
			return nil, err
		}
	}

	hosts := arena(states)
	numInstances := request.NumInstances
	if numInstances <= 0 {
		numInstances = 1
	}

	selections := make([]*models.Selection, 0, numInstances)
	for i := 0; i < numInstances; i++ {
		survivors, stages := s.filterHosts(hosts, request, i)
		if len(survivors) == 0 {
			log.WithFields(log.Fields{
				"request_id": request.ID,
				"instance":   i,
				"stages":     stages,
			}).Info("Filters eliminated every candidate host")
			return nil, &NoValidHostError{
				RequestID: request.ID,
				Reason: fmt.Sprintf(
					"filters eliminated every host for instance %d of %d",
					i+1, numInstances),
				Stages: stages,
			}
		}

		weighed := s.weighers.WeighHosts(survivors, request)
		chosen := weighed[0].Host
		log.WithFields(log.Fields{
			"request_id": request.ID,
			"instance":   i,
			"hostname":   chosen.Hostname,
			"score":      weighed[0].Score,
		}).Debug("Selected host")

		selections = append(selections, models.NewSelection(chosen))
		chosen.ConsumeFromRequest(request)
		if request.Group != nil {
			request.Group.Hosts = append(request.Group.Hosts, chosen.Hostname)
		}

		// The surviving set funnels into the next instance, in weighed
		// order; run-once filter verdicts are already baked into it.
		hosts = hosts[:0]
		for _, w := range weighed {
			hosts = append(hosts, w.Host)
		}
	}
	return selections, nil
}

// filterHosts applies the ignored-hosts strip and the forced-hosts
// shortcut before the filter chain. Forced hosts bypass the chain
// entirely: the caller asked for them by name and owns the outcome.
func (s *Scheduler) filterHosts(
	hosts []*models.HostState,
	request *models.Request,
	iteration int) ([]*models.HostState, []filters.StageCount) {
	if len(request.IgnoredHosts) > 0 {
		hosts = stripIgnored(hosts, request.IgnoredHosts)
	}
	if len(request.ForcedHosts) > 0 {
		forced := matchForced(hosts, request.ForcedHosts)
		if len(forced) == 0 {
			log.WithFields(log.Fields{
				"request_id":   request.ID,
				"forced_hosts": request.ForcedHosts,
			}).Info("No host matched the forced host set")
			return nil, nil
		}
		log.WithFields(log.Fields{
			"request_id": request.ID,
			"num_hosts":  len(forced),
		}).Debug("Forced hosts bypass the filter chain")
		return forced, nil
	}
	return s.chain.Run(hosts, request, iteration)
}

// arena deep-copies the host snapshots so consumption within this
// invocation never leaks into shared state. Limit annotations always
// start empty.
func arena(states []*models.HostState) []*models.HostState {
	hosts := make([]*models.HostState, 0, len(states))
	for _, state := range states {
		host := state.Clone()
		host.Limits = nil
		hosts = append(hosts, host)
	}
	return hosts
}

func stripIgnored(hosts []*models.HostState, ignored []string) []*models.HostState {
	keep := make([]*models.HostState, 0, len(hosts))
	for _, host := range hosts {
		if !containsHostname(ignored, host.Hostname) {
			keep = append(keep, host)
		}
	}
	return keep
}

func matchForced(hosts []*models.HostState, forced []string) []*models.HostState {
	keep := make([]*models.HostState, 0, len(forced))
	for _, host := range hosts {
		if containsHostname(forced, host.Hostname) {
			keep = append(keep, host)
		}
	}
	return keep
}

func containsHostname(hostnames []string, hostname string) bool {
	for _, name := range hostnames {
		if name == hostname {
			return true
		}
	}
	return false
}
