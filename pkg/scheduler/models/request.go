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

// Group placement policies.
const (
	PolicyAffinity         = "affinity"
	PolicyAntiAffinity     = "anti-affinity"
	PolicySoftAffinity     = "soft-affinity"
	PolicySoftAntiAffinity = "soft-anti-affinity"
)

// Demand is the per-instance resource shape of a request, flattened
// from the flavor.
type Demand struct {
	VCPUs    int64 `json:"vcpus"`
	MemoryMB int64 `json:"memory_mb"`
	DiskGB   int64 `json:"disk_gb"`
}

// ImageProps are the scheduling-relevant properties of the requested
// image.
type ImageProps struct {
	Arch           string            `json:"arch,omitempty"`
	HypervisorType string            `json:"hypervisor_type,omitempty"`
	VMMode         string            `json:"vm_mode,omitempty"`
	Isolated       bool              `json:"isolated,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// Hints are free-form scheduler hints attached to a request.
type Hints struct {
	// Query is a JSON boolean expression tree evaluated over host state
	// fields by the query filter.
	Query string `json:"query,omitempty"`
	// SameHost and DifferentHost name hosts the placed instances must,
	// respectively must not, land with.
	SameHost      []string `json:"same_host,omitempty"`
	DifferentHost []string `json:"different_host,omitempty"`
	// BuildNearHostIP plus CIDR restrict candidates to one network
	// segment.
	BuildNearHostIP string `json:"build_near_host_ip,omitempty"`
	CIDR            string `json:"cidr,omitempty"`
}

// InstanceGroup is the server group the requested instances belong to.
// Hosts already running members arrive resolved; the placement loop
// appends its own picks so instances of one batch see each other.
type InstanceGroup struct {
	ID      string   `json:"id"`
	Policy  string   `json:"policy"`
	Members []string `json:"members,omitempty"`
	Hosts   []string `json:"hosts,omitempty"`
}

// RetryContext tracks, for one logical request, the hosts already
// attempted and failed across scheduler invocations. It is extended by
// the external compute layer when a build fails and passed back in on
// reschedule.
type RetryContext struct {
	NumAttempts int      `json:"num_attempts"`
	Hosts       []string `json:"hosts,omitempty"`
}

// Request asks for NumInstances instances of one demand shape to be
// placed. A request is immutable once constructed, with two exceptions:
// the retry context rewritten at the request boundary, and the group
// host accrual the placement loop performs between instances.
type Request struct {
	ID               string            `json:"id"`
	NumInstances     int               `json:"num_instances"`
	Demand           Demand            `json:"demand"`
	ExtraSpecs       map[string]string `json:"extra_specs,omitempty"`
	ImageProps       *ImageProps       `json:"image_props,omitempty"`
	Hints            *Hints            `json:"hints,omitempty"`
	Group            *InstanceGroup    `json:"group,omitempty"`
	AvailabilityZone string            `json:"availability_zone,omitempty"`
	NUMATopology     *numa.Topology    `json:"numa_topology,omitempty"`
	ForcedHosts      []string          `json:"forced_hosts,omitempty"`
	IgnoredHosts     []string          `json:"ignored_hosts,omitempty"`
	Retry            *RetryContext     `json:"retry,omitempty"`
}
