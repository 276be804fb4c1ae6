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

package filters

import (
	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/aggregates"
	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
)

const _maxInstancesKey = "max_instances_per_host"

func numInstancesPasses(host *models.HostState, max int64) bool {
	if host.NumInstances >= max {
		log.WithFields(log.Fields{
			"hostname":      host.Hostname,
			"num_instances": host.NumInstances,
			"max_instances": max,
		}).Debug("Too many instances on host")
		return false
	}
	return true
}

// numInstancesFilter caps how many instances a single host will carry.
type numInstancesFilter struct {
	max int64
}

// NewNumInstancesFilter creates the instance count cap filter.
func NewNumInstancesFilter(cfg *config.FiltersConfig) Filter {
	return &numInstancesFilter{max: cfg.MaxInstancesPerHost}
}

func (f *numInstancesFilter) Name() string {
	return NumInstances
}

func (f *numInstancesFilter) RunOncePerRequest() bool {
	return false
}

func (f *numInstancesFilter) Passes(host *models.HostState, _ *models.Request) bool {
	return numInstancesPasses(host, f.max)
}

// aggregateNumInstancesFilter is the numInstancesFilter with the cap
// resolved from the host's aggregate metadata.
type aggregateNumInstancesFilter struct {
	max int64
}

// NewAggregateNumInstancesFilter creates the aggregate-aware instance
// count cap filter.
func NewAggregateNumInstancesFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateNumInstancesFilter{max: cfg.MaxInstancesPerHost}
}

func (f *aggregateNumInstancesFilter) Name() string {
	return AggregateNumInstances
}

func (f *aggregateNumInstancesFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateNumInstancesFilter) Passes(host *models.HostState, _ *models.Request) bool {
	return numInstancesPasses(host, aggregates.ResolveInt(host, _maxInstancesKey, f.max))
}
