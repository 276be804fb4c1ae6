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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcus-compute/arcus/pkg/scheduler/numa"
)

func testHostState() *HostState {
	return &HostState{
		Hostname:          "compute-0001",
		Nodename:          "compute-0001",
		FreeRAMMB:         4096,
		FreeDiskMB:        102400,
		TotalUsableRAMMB:  8192,
		TotalUsableDiskGB: 200,
		VCPUsTotal:        16,
		VCPUsUsed:         4,
		NumInstances:      2,
		NumIOOps:          1,
		Capabilities:      map[string]string{"hw_features": "aes mmx"},
		Metrics:           map[string]float64{"cpu.percent": 0.25},
		Aggregates: []*Aggregate{
			{ID: "agg-1", Name: "rack-a", Metadata: map[string]string{
				"cpu_allocation_ratio": "1.5",
			}},
		},
	}
}

func testRequest() *Request {
	return &Request{
		ID:           "req-1",
		NumInstances: 1,
		Demand:       Demand{VCPUs: 2, MemoryMB: 2048, DiskGB: 10},
	}
}

func TestConsumeFromRequest(t *testing.T) {
	host := testHostState()
	host.ConsumeFromRequest(testRequest())

	assert.Equal(t, int64(2048), host.FreeRAMMB)
	assert.Equal(t, int64(102400-10*1024), host.FreeDiskMB)
	assert.Equal(t, int64(6), host.VCPUsUsed)
	assert.Equal(t, int64(3), host.NumInstances)
	assert.Equal(t, int64(2), host.NumIOOps)
}

func TestConsumeFromRequestOvercommitDeficit(t *testing.T) {
	host := testHostState()
	host.FreeRAMMB = 1024

	req := testRequest()
	host.ConsumeFromRequest(req)

	// The deficit keeps used = total - free exact for the next filter
	// pass under an allocation ratio above one.
	assert.Equal(t, int64(-1024), host.FreeRAMMB)
	assert.Equal(t, int64(8192+1024), host.TotalUsableRAMMB-host.FreeRAMMB)
}

func TestConsumeFromRequestAccruesNUMAPlan(t *testing.T) {
	host := testHostState()
	host.NUMATopology = &numa.Topology{Cells: []*numa.Cell{
		{ID: 0, VCPUs: 8, MemoryMB: 4096},
		{ID: 1, VCPUs: 8, MemoryMB: 4096},
	}}
	host.Limits = &Limits{NUMA: &numa.Plan{
		CPUAllocationRatio: 1.0,
		RAMAllocationRatio: 1.0,
		Assignments: []*numa.Assignment{
			{InstanceCellID: 0, HostCellID: 1, VCPUs: 2, MemoryMB: 2048},
		},
	}}

	host.ConsumeFromRequest(testRequest())

	assert.Equal(t, int64(0), host.NUMATopology.Cells[0].VCPUsUsed)
	assert.Equal(t, int64(2), host.NUMATopology.Cells[1].VCPUsUsed)
	assert.Equal(t, int64(2048), host.NUMATopology.Cells[1].MemoryMBUsed)
}

func TestHostStateClone(t *testing.T) {
	host := testHostState()
	host.NUMATopology = &numa.Topology{Cells: []*numa.Cell{
		{ID: 0, VCPUs: 8, MemoryMB: 4096},
	}}
	host.Limits = &Limits{MemoryMB: 12288}

	clone := host.Clone()
	clone.FreeRAMMB = 1
	clone.Capabilities["hw_features"] = "sse"
	clone.Metrics["cpu.percent"] = 0.99
	clone.NUMATopology.Cells[0].VCPUsUsed = 8
	clone.Limits.MemoryMB = 1

	assert.Equal(t, int64(4096), host.FreeRAMMB)
	assert.Equal(t, "aes mmx", host.Capabilities["hw_features"])
	assert.Equal(t, 0.25, host.Metrics["cpu.percent"])
	assert.Equal(t, int64(0), host.NUMATopology.Cells[0].VCPUsUsed)
	assert.Equal(t, float64(12288), host.Limits.MemoryMB)

	// Aggregate metadata is immutable for a snapshot set and stays
	// shared.
	require.Len(t, clone.Aggregates, 1)
	assert.Equal(t, host.Aggregates[0], clone.Aggregates[0])
}

func TestNewSelectionSnapshotsLimits(t *testing.T) {
	host := testHostState()
	host.Limits = &Limits{
		MemoryMB: 12288,
		NUMA: &numa.Plan{Assignments: []*numa.Assignment{
			{InstanceCellID: 0, HostCellID: 0, VCPUs: 2, MemoryMB: 2048},
		}},
	}

	selection := NewSelection(host)
	host.Limits.MemoryMB = 0
	host.Limits.NUMA.Assignments[0].VCPUs = 99

	assert.Equal(t, "compute-0001", selection.Hostname)
	assert.Equal(t, float64(12288), selection.Limits.MemoryMB)
	assert.Equal(t, int64(2), selection.Limits.NUMA.Assignments[0].VCPUs)
}
