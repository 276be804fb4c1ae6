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
	"testing"

	"github.com/arcus-compute/arcus/pkg/scheduler/models"

	"github.com/stretchr/testify/assert"
)

func capabilityHost() *models.HostState {
	return &models.HostState{
		Hostname:          "h1",
		HypervisorType:    "qemu",
		HypervisorVersion: 6002000,
		CPUArch:           "x86_64",
		FreeRAMMB:         4096,
		Capabilities: map[string]string{
			"gpu_model": "a100",
		},
	}
}

func specsRequest(specs map[string]string) *models.Request {
	return &models.Request{ID: "req-1", NumInstances: 1, ExtraSpecs: specs}
}

func TestComputeCapabilitiesFilterNoSpecs(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	assert.True(t, f.Passes(capabilityHost(), specsRequest(nil)))
}

func TestComputeCapabilitiesFilterUnscopedKey(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"hypervisor_type": "qemu"})))
	assert.False(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"hypervisor_type": "xen"})))
}

func TestComputeCapabilitiesFilterCapabilitiesScope(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"capabilities:gpu_model": "a100"})))
	assert.False(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"capabilities:gpu_model": "h100"})))
}

func TestComputeCapabilitiesFilterSkipsForeignScopes(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	// trust: and aggregate-scoped keys belong to other filters.
	assert.True(t, f.Passes(capabilityHost(), specsRequest(map[string]string{
		"trust:trusted_host":                       "trusted",
		"aggregate_instance_extra_specs:ssd_ready": "true",
	})))
}

func TestComputeCapabilitiesFilterMissingCapabilityFails(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	assert.False(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"capabilities:fpga_model": "any"})))
}

func TestComputeCapabilitiesFilterOperatorSpecs(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())

	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"free_ram_mb": ">= 2048"})))
	assert.False(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"free_ram_mb": ">= 8192"})))
	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"cpu_arch": "<in> x86"})))
	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"hypervisor_type": "<or> qemu <or> xen"})))
	assert.True(t, f.Passes(capabilityHost(),
		specsRequest(map[string]string{"hypervisor_version": ">= 6000000"})))
}

func TestComputeCapabilitiesFilterWellKnownAttributes(t *testing.T) {
	f := NewComputeCapabilitiesFilter(filtersConfig())
	host := capabilityHost()
	host.Nodename = "node-7"
	host.NumInstances = 3

	assert.True(t, f.Passes(host, specsRequest(map[string]string{
		"hostname":      "h1",
		"nodename":      "node-7",
		"num_instances": "<= 3",
	})))
}
