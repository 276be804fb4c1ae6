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

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
	"github.com/arcus-compute/arcus/pkg/scheduler/numa"
)

// numaTopologyFilter admits hosts whose NUMA cells can hold the
// request's guest topology under the cell-level overcommit caps, and
// records the winning assignment for the claim step. Requests without a
// guest topology pass everywhere; a host not reporting cells cannot
// serve one that has it.
type numaTopologyFilter struct {
	cpuRatio float64
	ramRatio float64
	sharing  bool
}

// NewNUMATopologyFilter creates the NUMA topology filter.
func NewNUMATopologyFilter(cfg *config.FiltersConfig) Filter {
	return &numaTopologyFilter{
		cpuRatio: cfg.CPUAllocationRatio,
		ramRatio: cfg.RAMAllocationRatio,
		sharing:  cfg.NUMACellSharing,
	}
}

func (f *numaTopologyFilter) Name() string {
	return NUMATopology
}

func (f *numaTopologyFilter) RunOncePerRequest() bool {
	return false
}

func (f *numaTopologyFilter) Passes(host *models.HostState, request *models.Request) bool {
	if request.NUMATopology == nil {
		return true
	}
	cpuRatio := f.cpuRatio
	if host.CPUAllocationRatio > 0 {
		cpuRatio = host.CPUAllocationRatio
	}
	ramRatio := f.ramRatio
	if host.RAMAllocationRatio > 0 {
		ramRatio = host.RAMAllocationRatio
	}
	plan := numa.Fit(host.NUMATopology, request.NUMATopology, cpuRatio, ramRatio, f.sharing)
	if plan == nil {
		log.WithFields(log.Fields{
			"hostname":   host.Hostname,
			"request_id": request.ID,
		}).Debug("Guest NUMA topology does not fit the host cells")
		return false
	}
	ensureLimits(host).NUMA = plan
	return true
}
