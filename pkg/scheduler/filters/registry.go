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
	"github.com/arcus-compute/arcus/pkg/scheduler/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Stable filter names, as used in the filters.enabled config list.
const (
	Compute                 = "compute"
	RAM                     = "ram"
	AggregateRAM            = "aggregate_ram"
	ExactRAM                = "exact_ram"
	Disk                    = "disk"
	AggregateDisk           = "aggregate_disk"
	ExactDisk               = "exact_disk"
	Core                    = "core"
	AggregateCore           = "aggregate_core"
	ExactCore               = "exact_core"
	AvailabilityZone        = "availability_zone"
	Retry                   = "retry"
	IOOps                   = "io_ops"
	AggregateIOOps          = "aggregate_io_ops"
	NumInstances            = "num_instances"
	AggregateNumInstances   = "aggregate_num_instances"
	SameHost                = "same_host"
	DifferentHost           = "different_host"
	CIDRAffinity            = "cidr_affinity"
	GroupAffinity           = "group_affinity"
	GroupAntiAffinity       = "group_anti_affinity"
	IsolatedHosts           = "isolated_hosts"
	Trusted                 = "trusted"
	ImageProperties         = "image_properties"
	ComputeCapabilities     = "compute_capabilities"
	AggregateExtraSpecs     = "aggregate_instance_extra_specs"
	AggregateImageIsolation = "aggregate_image_isolation"
	Query                   = "query"
	NUMATopology            = "numa_topology"
)

// Factory builds a filter from the filters config.
type Factory func(cfg *config.FiltersConfig) Filter

// map of filter name to Factory. Not thread-safe -> should be
// updated at initialization only; only reads are safe after
// initialization.
var factories = make(map[string]Factory)

// register keeps a filter factory in the factory map.
func register(name string, factory Factory) {
	log.WithField("name", name).Info("Registering filter")
	if factory == nil {
		log.WithField("name", name).Error("invalid filter factory function")
		return
	}
	if _, registered := factories[name]; registered {
		log.WithField("name", name).Error("filter already registered")
		return
	}
	factories[name] = factory
}

// Init registers all the builtin filters.
func Init() {
	register(Compute, NewComputeFilter)
	register(RAM, NewRAMFilter)
	register(AggregateRAM, NewAggregateRAMFilter)
	register(ExactRAM, NewExactRAMFilter)
	register(Disk, NewDiskFilter)
	register(AggregateDisk, NewAggregateDiskFilter)
	register(ExactDisk, NewExactDiskFilter)
	register(Core, NewCoreFilter)
	register(AggregateCore, NewAggregateCoreFilter)
	register(ExactCore, NewExactCoreFilter)
	register(AvailabilityZone, NewAvailabilityZoneFilter)
	register(Retry, NewRetryFilter)
	register(IOOps, NewIOOpsFilter)
	register(AggregateIOOps, NewAggregateIOOpsFilter)
	register(NumInstances, NewNumInstancesFilter)
	register(AggregateNumInstances, NewAggregateNumInstancesFilter)
	register(SameHost, NewSameHostFilter)
	register(DifferentHost, NewDifferentHostFilter)
	register(CIDRAffinity, NewCIDRAffinityFilter)
	register(GroupAffinity, NewGroupAffinityFilter)
	register(GroupAntiAffinity, NewGroupAntiAffinityFilter)
	register(IsolatedHosts, NewIsolatedHostsFilter)
	register(Trusted, NewTrustedFilter)
	register(ImageProperties, NewImagePropertiesFilter)
	register(ComputeCapabilities, NewComputeCapabilitiesFilter)
	register(AggregateExtraSpecs, NewAggregateExtraSpecsFilter)
	register(AggregateImageIsolation, NewAggregateImageIsolationFilter)
	register(Query, NewQueryFilter)
	register(NUMATopology, NewNUMATopologyFilter)
}

// New builds the filters the config enables, in the configured order. Every
// unknown name is reported; nothing is built when any name fails to resolve.
func New(cfg *config.FiltersConfig) ([]Filter, error) {
	var errs error
	result := make([]Filter, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		factory, ok := factories[name]
		if !ok {
			errs = multierr.Append(errs, errors.Errorf("unknown filter %q", name))
			continue
		}
		result = append(result, factory(cfg))
	}
	if errs != nil {
		return nil, errs
	}
	return result, nil
}
