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

package models

import (
	"github.com/arcus-compute/arcus/pkg/scheduler/numa"
)

// Aggregate is a named grouping of hosts carrying shared metadata, such
// as per-aggregate allocation ratio overrides or an availability zone.
type Aggregate struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// SupportedInstance describes one (architecture, hypervisor type, vm
// mode) combination a host can run.
type SupportedInstance struct {
	Arch           string `json:"arch"`
	HypervisorType string `json:"hypervisor_type"`
	VMMode         string `json:"vm_mode"`
}

// Limits carries the oversubscription limits and claim annotations the
// filter chain computes for a host while evaluating one request. The
// external claim step revalidates a selection against them. Limits are
// request-scoped scratch state, never part of the tracker snapshot.
type Limits struct {
	MemoryMB float64    `json:"memory_mb,omitempty"`
	DiskGB   float64    `json:"disk_gb,omitempty"`
	VCPUs    float64    `json:"vcpus,omitempty"`
	NUMA     *numa.Plan `json:"numa,omitempty"`
}

// Clone returns a deep copy of the limits.
func (l *Limits) Clone() *Limits {
	if l == nil {
		return nil
	}
	copied := *l
	if l.NUMA != nil {
		assignments := make([]*numa.Assignment, 0, len(l.NUMA.Assignments))
		for _, a := range l.NUMA.Assignments {
			ac := *a
			assignments = append(assignments, &ac)
		}
		plan := *l.NUMA
		plan.Assignments = assignments
		copied.NUMA = &plan
	}
	return &copied
}

// HostState is the point-in-time resource and capability view of one
// host, consumed from the external resource tracker. It is never the
// authoritative usage record: mutations made inside one placement
// invocation are local to that invocation's arena and discarded when
// the invocation ends.
type HostState struct {
	Hostname string `json:"hostname"`
	Nodename string `json:"nodename"`
	HostIP   string `json:"host_ip,omitempty"`

	// Disabled marks a host administratively taken out of rotation
	// while its tracker keeps reporting state.
	Disabled bool `json:"disabled,omitempty"`

	// Resource counters, mutable within one placement invocation.
	FreeRAMMB         int64 `json:"free_ram_mb"`
	FreeDiskMB        int64 `json:"free_disk_mb"`
	TotalUsableRAMMB  int64 `json:"total_usable_ram_mb"`
	TotalUsableDiskGB int64 `json:"total_usable_disk_gb"`
	VCPUsTotal        int64 `json:"vcpus_total"`
	VCPUsUsed         int64 `json:"vcpus_used"`
	NumInstances      int64 `json:"num_instances"`
	NumIOOps          int64 `json:"num_io_ops"`

	// Static capability attributes.
	HypervisorType     string               `json:"hypervisor_type,omitempty"`
	HypervisorVersion  int64                `json:"hypervisor_version,omitempty"`
	CPUArch            string               `json:"cpu_arch,omitempty"`
	SupportedInstances []*SupportedInstance `json:"supported_instances,omitempty"`
	TrustLevel         string               `json:"trust_level,omitempty"`
	Isolated           bool                 `json:"isolated,omitempty"`
	AvailabilityZone   string               `json:"availability_zone,omitempty"`
	Capabilities       map[string]string    `json:"capabilities,omitempty"`
	Metrics            map[string]float64   `json:"metrics,omitempty"`
	NUMATopology       *numa.Topology       `json:"numa_topology,omitempty"`

	// Per-host allocation ratio overrides from the tracker; zero means
	// unset, deferring to per-aggregate overrides or the global ratio.
	RAMAllocationRatio  float64 `json:"ram_allocation_ratio,omitempty"`
	CPUAllocationRatio  float64 `json:"cpu_allocation_ratio,omitempty"`
	DiskAllocationRatio float64 `json:"disk_allocation_ratio,omitempty"`

	// Aggregates the host is a member of, metadata inline.
	Aggregates []*Aggregate `json:"aggregates,omitempty"`

	// Limits is request-scoped scratch written by the filter chain.
	Limits *Limits `json:"-"`
}

// ConsumeFromRequest applies one instance of the request's demand to
// the host counters, so the next iteration of a multi-instance
// placement loop sees the host as if the instance were already built
// on it. Free counters can go below zero when an allocation ratio
// admits overcommit; the deficit keeps the used-capacity arithmetic
// exact for subsequent filter passes.
func (h *HostState) ConsumeFromRequest(request *Request) {
	h.FreeRAMMB -= request.Demand.MemoryMB
	h.FreeDiskMB -= request.Demand.DiskGB * 1024
	h.VCPUsUsed += request.Demand.VCPUs
	h.NumInstances++
	h.NumIOOps++

	if h.Limits != nil && h.Limits.NUMA != nil {
		h.NUMATopology.Consume(h.Limits.NUMA)
	}
}

// Clone returns a deep copy of the host state for a request-scoped
// arena. Aggregates are shared by reference: their metadata is
// immutable for the lifetime of a snapshot set.
func (h *HostState) Clone() *HostState {
	copied := *h
	if h.Capabilities != nil {
		copied.Capabilities = make(map[string]string, len(h.Capabilities))
		for k, v := range h.Capabilities {
			copied.Capabilities[k] = v
		}
	}
	if h.Metrics != nil {
		copied.Metrics = make(map[string]float64, len(h.Metrics))
		for k, v := range h.Metrics {
			copied.Metrics[k] = v
		}
	}
	if h.SupportedInstances != nil {
		copied.SupportedInstances = make(
			[]*SupportedInstance, 0, len(h.SupportedInstances))
		for _, si := range h.SupportedInstances {
			sc := *si
			copied.SupportedInstances = append(copied.SupportedInstances, &sc)
		}
	}
	if h.Aggregates != nil {
		copied.Aggregates = make([]*Aggregate, len(h.Aggregates))
		copy(copied.Aggregates, h.Aggregates)
	}
	copied.NUMATopology = h.NUMATopology.Clone()
	copied.Limits = h.Limits.Clone()
	return &copied
}
