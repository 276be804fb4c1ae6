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

const _ramRatioKey = "ram_allocation_ratio"

// ramPasses checks the requested memory against the host's
// oversubscribed capacity and, on success, records the memory limit for
// the external claim step to revalidate against.
func ramPasses(host *models.HostState, request *models.Request, ratio float64) bool {
	requested := request.Demand.MemoryMB
	limit := float64(host.TotalUsableRAMMB) * ratio
	used := host.TotalUsableRAMMB - host.FreeRAMMB
	usable := limit - float64(used)
	if usable < float64(requested) {
		log.WithFields(log.Fields{
			"hostname":     host.Hostname,
			"requested_mb": requested,
			"usable_mb":    usable,
		}).Debug("Not enough usable RAM")
		return false
	}
	ensureLimits(host).MemoryMB = limit
	return true
}

// ramFilter admits hosts able to fit the requested memory under the RAM
// overcommit ratio. A ratio set on the host wins over the global one.
type ramFilter struct {
	ratio float64
}

// NewRAMFilter creates the RAM capacity filter.
func NewRAMFilter(cfg *config.FiltersConfig) Filter {
	return &ramFilter{ratio: cfg.RAMAllocationRatio}
}

func (f *ramFilter) Name() string {
	return RAM
}

func (f *ramFilter) RunOncePerRequest() bool {
	return false
}

func (f *ramFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := f.ratio
	if host.RAMAllocationRatio > 0 {
		ratio = host.RAMAllocationRatio
	}
	return ramPasses(host, request, ratio)
}

// aggregateRAMFilter is the ramFilter with the ratio resolved from the
// host's aggregate metadata; several values resolve to the most
// conservative one.
type aggregateRAMFilter struct {
	ratio float64
}

// NewAggregateRAMFilter creates the aggregate-aware RAM capacity filter.
func NewAggregateRAMFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateRAMFilter{ratio: cfg.RAMAllocationRatio}
}

func (f *aggregateRAMFilter) Name() string {
	return AggregateRAM
}

func (f *aggregateRAMFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateRAMFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := aggregates.ResolveFloat(host, _ramRatioKey, f.ratio)
	return ramPasses(host, request, ratio)
}

// exactRAMFilter admits only hosts whose free RAM matches the request
// exactly, for baremetal flavors mapping one instance to a whole host.
type exactRAMFilter struct{}

// NewExactRAMFilter creates the exact RAM match filter.
func NewExactRAMFilter(_ *config.FiltersConfig) Filter {
	return &exactRAMFilter{}
}

func (f *exactRAMFilter) Name() string {
	return ExactRAM
}

func (f *exactRAMFilter) RunOncePerRequest() bool {
	return false
}

func (f *exactRAMFilter) Passes(host *models.HostState, request *models.Request) bool {
	return request.Demand.MemoryMB == host.FreeRAMMB
}
