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

const _cpuRatioKey = "cpu_allocation_ratio"

// corePasses checks the requested vCPUs against the host's
// oversubscribed capacity. Hosts not reporting a vCPU total pass open:
// a broken collector must not empty the whole candidate set.
func corePasses(host *models.HostState, request *models.Request, ratio float64) bool {
	if host.VCPUsTotal == 0 {
		log.WithField("hostname", host.Hostname).
			Warn("VCPUs not set; assuming CPU collection broken")
		return true
	}
	limit := float64(host.VCPUsTotal) * ratio
	ensureLimits(host).VCPUs = limit
	free := limit - float64(host.VCPUsUsed)
	if free < float64(request.Demand.VCPUs) {
		log.WithFields(log.Fields{
			"hostname":        host.Hostname,
			"requested_vcpus": request.Demand.VCPUs,
			"free_vcpus":      free,
		}).Debug("Not enough usable vCPUs")
		return false
	}
	return true
}

// coreFilter admits hosts able to fit the requested vCPUs under the CPU
// overcommit ratio. A ratio set on the host wins over the global one.
type coreFilter struct {
	ratio float64
}

// NewCoreFilter creates the vCPU capacity filter.
func NewCoreFilter(cfg *config.FiltersConfig) Filter {
	return &coreFilter{ratio: cfg.CPUAllocationRatio}
}

func (f *coreFilter) Name() string {
	return Core
}

func (f *coreFilter) RunOncePerRequest() bool {
	return false
}

func (f *coreFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := f.ratio
	if host.CPUAllocationRatio > 0 {
		ratio = host.CPUAllocationRatio
	}
	return corePasses(host, request, ratio)
}

// aggregateCoreFilter is the coreFilter with the ratio resolved from
// the host's aggregate metadata.
type aggregateCoreFilter struct {
	ratio float64
}

// NewAggregateCoreFilter creates the aggregate-aware vCPU capacity filter.
func NewAggregateCoreFilter(cfg *config.FiltersConfig) Filter {
	return &aggregateCoreFilter{ratio: cfg.CPUAllocationRatio}
}

func (f *aggregateCoreFilter) Name() string {
	return AggregateCore
}

func (f *aggregateCoreFilter) RunOncePerRequest() bool {
	return false
}

func (f *aggregateCoreFilter) Passes(host *models.HostState, request *models.Request) bool {
	ratio := aggregates.ResolveFloat(host, _cpuRatioKey, f.ratio)
	return corePasses(host, request, ratio)
}

// exactCoreFilter admits only hosts whose free vCPUs match the request
// exactly, for baremetal flavors mapping one instance to a whole host.
// Unlike coreFilter it fails closed on a missing vCPU total: an exact
// match cannot be assumed.
type exactCoreFilter struct{}

// NewExactCoreFilter creates the exact vCPU match filter.
func NewExactCoreFilter(_ *config.FiltersConfig) Filter {
	return &exactCoreFilter{}
}

func (f *exactCoreFilter) Name() string {
	return ExactCore
}

func (f *exactCoreFilter) RunOncePerRequest() bool {
	return false
}

func (f *exactCoreFilter) Passes(host *models.HostState, request *models.Request) bool {
	if host.VCPUsTotal == 0 {
		log.WithField("hostname", host.Hostname).
			Warn("VCPUs not set; assuming CPU collection broken")
		return false
	}
	return request.Demand.VCPUs == host.VCPUsTotal-host.VCPUsUsed
}
