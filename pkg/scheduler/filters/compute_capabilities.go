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
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/arcus-compute/arcus/pkg/scheduler/config"
	"github.com/arcus-compute/arcus/pkg/scheduler/models"
	"github.com/arcus-compute/arcus/pkg/scheduler/specops"
)

const _capabilitiesScope = "capabilities"

// capabilityValue resolves a capability name against the host: the
// well-known state attributes first, then the free-form capability map
// the host reports.
func capabilityValue(host *models.HostState, name string) (string, bool) {
	switch name {
	case "hostname":
		return host.Hostname, true
	case "nodename":
		return host.Nodename, true
	case "host_ip":
		return host.HostIP, true
	case "hypervisor_type":
		return host.HypervisorType, true
	case "hypervisor_version":
		return strconv.FormatInt(host.HypervisorVersion, 10), true
	case "cpu_arch":
		return host.CPUArch, true
	case "trust_level":
		return host.TrustLevel, true
	case "availability_zone":
		return host.AvailabilityZone, true
	case "free_ram_mb":
		return strconv.FormatInt(host.FreeRAMMB, 10), true
	case "free_disk_mb":
		return strconv.FormatInt(host.FreeDiskMB, 10), true
	case "total_usable_ram_mb":
		return strconv.FormatInt(host.TotalUsableRAMMB, 10), true
	case "total_usable_disk_gb":
		return strconv.FormatInt(host.TotalUsableDiskGB, 10), true
	case "vcpus_total":
		return strconv.FormatInt(host.VCPUsTotal, 10), true
	case "vcpus_used":
		return strconv.FormatInt(host.VCPUsUsed, 10), true
	case "num_instances":
		return strconv.FormatInt(host.NumInstances, 10), true
	case "num_io_ops":
		return strconv.FormatInt(host.NumIOOps, 10), true
	}
	value, ok := host.Capabilities[name]
	return value, ok
}

// computeCapabilitiesFilter matches the request's extra specs against
// host capabilities with the full operator grammar. Unscoped keys and
// keys under the capabilities: scope are checked; keys under any other
// scope belong to other filters and are skipped. A host missing a
// checked capability fails.
type computeCapabilitiesFilter struct{}

// NewComputeCapabilitiesFilter creates the capability spec filter.
func NewComputeCapabilitiesFilter(_ *config.FiltersConfig) Filter {
	return &computeCapabilitiesFilter{}
}

func (f *computeCapabilitiesFilter) Name() string {
	return ComputeCapabilities
}

// RunOncePerRequest is true: capabilities do not change within a
// request.
func (f *computeCapabilitiesFilter) RunOncePerRequest() bool {
	return true
}

func (f *computeCapabilitiesFilter) Passes(host *models.HostState, request *models.Request) bool {
	for key, spec := range request.ExtraSpecs {
		scope, bare := specops.Scope(key)
		if scope != "" && scope != _capabilitiesScope {
			continue
		}
		operand, ok := capabilityValue(host, bare)
		if !ok {
			log.WithFields(log.Fields{
				"hostname":   host.Hostname,
				"capability": bare,
			}).Debug("Host does not report the requested capability")
			return false
		}
		if !specops.Match(operand, spec) {
			log.WithFields(log.Fields{
				"hostname":   host.Hostname,
				"capability": bare,
				"operand":    operand,
				"spec":       spec,
			}).Debug("Capability does not satisfy the extra spec")
			return false
		}
	}
	return true
}
